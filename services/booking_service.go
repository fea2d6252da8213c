package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking-api/models"
	"hotel-booking-api/utils"
)

const dateLayout = "2006-01-02"

// Actor identifies who is acting on a booking. Zero UserID with Admin false
// means an anonymous caller.
type Actor struct {
	UserID uint
	Admin  bool
}

// GuestContact is the contact block a guest submits instead of a session.
// It is resolved to a real user record only at persistence time.
type GuestContact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// BookingRequest is the input to Create. Either UserID (authenticated caller)
// or Guest may be set; with neither, a throwaway guest account is synthesized.
type BookingRequest struct {
	RoomID          uint
	CheckIn         string
	CheckOut        string
	GuestCount      int
	SpecialRequests string

	UserID uint
	Guest  *GuestContact
}

type BookingService struct {
	DB     *gorm.DB
	Events *BookingEvents
}

func NewBookingService(db *gorm.DB, events *BookingEvents) *BookingService {
	return &BookingService{DB: db, Events: events}
}

// ParseDate accepts a plain date or an RFC3339 timestamp and normalizes it to
// midnight UTC, which is how check-in/out dates are stored and compared.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Nights returns the chargeable number of nights, rounding partial days up.
func Nights(checkIn, checkOut time.Time) int {
	hours := checkOut.Sub(checkIn).Hours()
	n := int(hours / 24)
	if float64(n)*24 < hours {
		n++
	}
	return n
}

// lockForUpdate locks the selected rows on dialects that support it. MySQL
// needs the explicit row lock to serialize concurrent booking attempts;
// SQLite, which backs the test databases, has a single writer and no FOR
// UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// countBlockingBookings is the single conflict predicate shared by booking
// creation and the availability query. Only the canonical confirmed status
// blocks a room's dates; the boundary comparisons are inclusive, so stays
// touching at a boundary date conflict.
func countBlockingBookings(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time) (int64, error) {
	var n int64
	err := tx.Model(&models.Booking{}).
		Where("room_id = ? AND status = ?", roomID, models.StatusConfirmed).
		Where("check_in <= ? AND check_out >= ?", checkOut, checkIn).
		Count(&n).Error
	return n, err
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// resolveOwner finds or creates the user record a booking belongs to, inside
// the booking transaction. Guest accounts get a random placeholder password;
// they exist to own the booking, not to log in.
func (s *BookingService) resolveOwner(tx *gorm.DB, req *BookingRequest) (*models.User, error) {
	if req.UserID != 0 {
		var user models.User
		if err := tx.First(&user, req.UserID).Error; err != nil {
			return nil, fmt.Errorf("%w: user %d: %v", ErrOwnerResolution, req.UserID, err)
		}
		return &user, nil
	}

	guest := req.Guest
	if guest != nil && strings.TrimSpace(guest.Email) != "" {
		email := strings.ToLower(strings.TrimSpace(guest.Email))

		var user models.User
		err := tx.Where("email = ?", email).First(&user).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrOwnerResolution, err)
		}

		created, cErr := s.createGuestUser(tx, guest.FirstName, guest.LastName, email, guest.Phone)
		if cErr == nil {
			return created, nil
		}
		if isDuplicateKey(cErr) {
			// Lost a race with a concurrent booking for the same email.
			if err := tx.Where("email = ?", email).First(&user).Error; err == nil {
				return &user, nil
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrOwnerResolution, cErr)
	}

	// No session, no contact info: synthesize a throwaway guest.
	created, err := s.createGuestUser(tx, "Guest", "", utils.GuestEmail(), "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOwnerResolution, err)
	}
	return created, nil
}

func (s *BookingService) createGuestUser(tx *gorm.DB, firstName, lastName, email, phone string) (*models.User, error) {
	placeholder, err := utils.RandomPassword(16)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(placeholder)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(firstName) == "" {
		firstName = "Guest"
	}
	user := models.User{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     email,
		Password:  hash,
		Phone:     strings.TrimSpace(phone),
		Role:      models.RoleUser,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create runs the full booking workflow: validation, conflict check, owner
// resolution, price computation and the insert. The conflict scan and the
// insert share one transaction that locks the room row first, so concurrent
// requests for the same room serialize instead of double-booking.
func (s *BookingService) Create(ctx context.Context, req *BookingRequest) (*models.Booking, error) {
	if req.RoomID == 0 || strings.TrimSpace(req.CheckIn) == "" ||
		strings.TrimSpace(req.CheckOut) == "" || req.GuestCount <= 0 {
		return nil, ErrMissingFields
	}

	checkIn, err := ParseDate(req.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := ParseDate(req.CheckOut)
	if err != nil {
		return nil, err
	}
	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidDateRange
	}

	var booking models.Booking
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := lockForUpdate(tx).First(&room, req.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("failed to load room %d: %w", req.RoomID, err)
		}

		blocking, err := countBlockingBookings(tx, room.ID, checkIn, checkOut)
		if err != nil {
			return fmt.Errorf("conflict scan failed: %w", err)
		}
		if blocking > 0 {
			return ErrRoomConflict
		}

		owner, err := s.resolveOwner(tx, req)
		if err != nil {
			return err
		}

		nights := Nights(checkIn, checkOut)
		booking = models.Booking{
			RoomID:          room.ID,
			UserID:          owner.ID,
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			GuestCount:      req.GuestCount,
			TotalPrice:      float64(nights) * room.Price,
			Status:          models.StatusPending,
			SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		}
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		booking.Room = room
		booking.User = *owner
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.Events.Publish(ctx, QueueBookingCreated, newBookingEvent(&booking))
	return &booking, nil
}

// CheckAvailability answers whether a room is free for a date range without
// creating anything. The administrator availability flag short-circuits the
// conflict scan.
func (s *BookingService) CheckAvailability(ctx context.Context, roomID uint, checkInRaw, checkOutRaw string) (bool, string, error) {
	if strings.TrimSpace(checkInRaw) == "" || strings.TrimSpace(checkOutRaw) == "" {
		return false, "", ErrMissingFields
	}
	checkIn, err := ParseDate(checkInRaw)
	if err != nil {
		return false, "", err
	}
	checkOut, err := ParseDate(checkOutRaw)
	if err != nil {
		return false, "", err
	}
	if !checkIn.Before(checkOut) {
		return false, "", ErrInvalidDateRange
	}

	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "", ErrRoomNotFound
		}
		return false, "", fmt.Errorf("failed to load room %d: %w", roomID, err)
	}
	if !room.IsAvailable {
		return false, "room is not available", nil
	}

	blocking, err := countBlockingBookings(s.DB.WithContext(ctx), roomID, checkIn, checkOut)
	if err != nil {
		return false, "", fmt.Errorf("conflict scan failed: %w", err)
	}
	if blocking > 0 {
		return false, "room is booked for the requested dates", nil
	}
	return true, "room is available for the requested dates", nil
}

// GetByID returns one booking. Administrators see any booking; other callers
// only their own. A foreign booking yields ErrNotOwner rather than a not
// found error.
func (s *BookingService) GetByID(ctx context.Context, id uint, actor Actor) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.WithContext(ctx).
		Preload("Room").Preload("User").
		First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", id, err)
	}
	if !actor.Admin && booking.UserID != actor.UserID {
		return nil, ErrNotOwner
	}
	return &booking, nil
}

// ListAll returns every booking with its room and owner, newest first.
func (s *BookingService) ListAll(ctx context.Context) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.WithContext(ctx).
		Preload("Room").Preload("User").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return list, nil
}

// ListByUser returns the caller's bookings with their rooms.
func (s *BookingService) ListByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.WithContext(ctx).
		Preload("Room").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings for user %d: %w", userID, err)
	}
	return list, nil
}

// Recent returns the newest bookings for the admin dashboard.
func (s *BookingService) Recent(ctx context.Context, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 5
	}
	var list []models.Booking
	if err := s.DB.WithContext(ctx).
		Preload("Room").Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent bookings: %w", err)
	}
	return list, nil
}

// SetStatus overwrites a booking's status. Admin only; the route gate
// enforces that, the service just validates the value.
func (s *BookingService) SetStatus(ctx context.Context, id uint, status string) (*models.Booking, error) {
	if !models.ValidBookingStatus(status) {
		return nil, ErrInvalidStatus
	}

	var booking models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to load booking %d: %w", id, err)
		}
		if err := tx.Model(&booking).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update booking %d: %w", id, err)
		}
		return tx.Preload("Room").Preload("User").First(&booking, id).Error
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, QueueBookingStatusChanged, newBookingEvent(&booking))
	return &booking, nil
}

// Cancel sets a booking to cancelled on behalf of its owner or an admin.
// Cancelled and completed bookings reject the request; a repeated cancel is
// an error, never a silent success.
func (s *BookingService) Cancel(ctx context.Context, id uint, actor Actor) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to load booking %d: %w", id, err)
		}
		if !actor.Admin && booking.UserID != actor.UserID {
			return ErrNotOwner
		}
		if !booking.CanCancel() {
			return ErrCannotCancel
		}
		if err := tx.Model(&booking).Update("status", models.StatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to cancel booking %d: %w", id, err)
		}
		return tx.Preload("Room").Preload("User").First(&booking, id).Error
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ctx, QueueBookingStatusChanged, newBookingEvent(&booking))
	return &booking, nil
}

// Delete removes a booking entirely. Admin only.
func (s *BookingService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Booking{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete booking %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
