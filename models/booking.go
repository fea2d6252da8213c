package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking lifecycle statuses. A booking starts out pending; confirmed bookings
// are the ones that block a room's dates. Cancelled and completed are terminal
// for the owning user (administrators may still overwrite via the status route).
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

var bookingStatuses = map[string]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusCancelled: true,
	StatusCompleted: true,
}

// ValidBookingStatus reports whether s is one of the known lifecycle statuses.
func ValidBookingStatus(s string) bool {
	return bookingStatuses[s]
}

type Booking struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	RoomID          uint           `gorm:"index;not null" json:"roomId"`
	UserID          uint           `gorm:"index;not null" json:"userId"`
	CheckIn         time.Time      `gorm:"type:date" json:"checkIn"`
	CheckOut        time.Time      `gorm:"type:date" json:"checkOut"`
	GuestCount      int            `json:"guestCount"`
	TotalPrice      float64        `json:"totalPrice"`
	Status          string         `gorm:"size:32;default:pending;index" json:"status"`
	SpecialRequests string         `gorm:"type:text" json:"specialRequests,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"-"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Room Room `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsTerminal reports whether the booking reached a state the owning user may
// no longer mutate.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

// CanCancel reports whether a cancel request is still allowed. Cancelling an
// already cancelled or completed booking is an error, never a silent success.
func (b *Booking) CanCancel() bool {
	return !b.IsTerminal()
}
