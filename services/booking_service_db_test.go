package services

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hotel-booking-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// each pooled connection would get its own in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Booking{},
	))
	return db
}

func seedRoom(t *testing.T, db *gorm.DB, price float64) *models.Room {
	t.Helper()
	room := models.Room{
		Name:        "Standard Room",
		Category:    models.CategoryStandard,
		Price:       price,
		Capacity:    2,
		IsAvailable: true,
	}
	require.NoError(t, db.Create(&room).Error)
	return &room
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		FirstName: "Seed",
		Email:     email,
		Password:  "irrelevant",
		Role:      models.RoleUser,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedBooking(t *testing.T, db *gorm.DB, roomID, userID uint, status, checkIn, checkOut string) *models.Booking {
	t.Helper()
	in, err := ParseDate(checkIn)
	require.NoError(t, err)
	out, err := ParseDate(checkOut)
	require.NoError(t, err)
	booking := models.Booking{
		RoomID:     roomID,
		UserID:     userID,
		CheckIn:    in,
		CheckOut:   out,
		GuestCount: 2,
		Status:     status,
	}
	require.NoError(t, db.Create(&booking).Error)
	return &booking
}

func TestCreateComputesPriceAndDefaults(t *testing.T) {
	db := newTestDB(t)
	room := seedRoom(t, db, 1200)
	svc := NewBookingService(db, nil)

	booking, err := svc.Create(context.Background(), &BookingRequest{
		RoomID:     room.ID,
		CheckIn:    "2025-03-10",
		CheckOut:   "2025-03-14",
		GuestCount: 2,
		Guest:      &GuestContact{FirstName: "Jane", Email: "jane@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, 4800.0, booking.TotalPrice, "4 nights at 1200")
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.NotZero(t, booking.UserID)
	assert.True(t, booking.CheckIn.Equal(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)))
}

func TestCreateRejectsOverlapWithConfirmed(t *testing.T) {
	db := newTestDB(t)
	room := seedRoom(t, db, 1200)
	owner := seedUser(t, db, "first@example.com")
	seedBooking(t, db, room.ID, owner.ID, models.StatusConfirmed, "2025-03-12", "2025-03-16")
	svc := NewBookingService(db, nil)

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
	}{
		{"partial overlap", "2025-03-14", "2025-03-18"},
		{"fully contained", "2025-03-13", "2025-03-15"},
		{"containing", "2025-03-10", "2025-03-20"},
		{"touching at checkout boundary", "2025-03-16", "2025-03-18"},
		{"touching at checkin boundary", "2025-03-08", "2025-03-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &BookingRequest{
				RoomID:     room.ID,
				CheckIn:    tt.checkIn,
				CheckOut:   tt.checkOut,
				GuestCount: 1,
				Guest:      &GuestContact{FirstName: "Jane", Email: "jane@example.com"},
			})
			assert.ErrorIs(t, err, ErrRoomConflict)
		})
	}

	// fully disjoint dates still go through
	booking, err := svc.Create(context.Background(), &BookingRequest{
		RoomID:     room.ID,
		CheckIn:    "2025-03-20",
		CheckOut:   "2025-03-22",
		GuestCount: 1,
		Guest:      &GuestContact{FirstName: "Jane", Email: "jane@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, booking.Status)
}

func TestCreateIgnoresNonConfirmedBookings(t *testing.T) {
	db := newTestDB(t)
	room := seedRoom(t, db, 1200)
	owner := seedUser(t, db, "first@example.com")
	for _, status := range []string{models.StatusPending, models.StatusCancelled, models.StatusCompleted} {
		seedBooking(t, db, room.ID, owner.ID, status, "2025-03-12", "2025-03-16")
	}
	svc := NewBookingService(db, nil)

	_, err := svc.Create(context.Background(), &BookingRequest{
		RoomID:     room.ID,
		CheckIn:    "2025-03-12",
		CheckOut:   "2025-03-16",
		GuestCount: 1,
		Guest:      &GuestContact{FirstName: "Jane", Email: "jane@example.com"},
	})
	assert.NoError(t, err, "only confirmed bookings block the dates")
}

func TestCreateReusesGuestByEmail(t *testing.T) {
	db := newTestDB(t)
	room := seedRoom(t, db, 1200)
	svc := NewBookingService(db, nil)

	guest := &GuestContact{FirstName: "Jane", LastName: "Doe", Email: "Jane@Example.com"}
	first, err := svc.Create(context.Background(), &BookingRequest{
		RoomID:     room.ID,
		CheckIn:    "2025-03-10",
		CheckOut:   "2025-03-12",
		GuestCount: 1,
		Guest:      guest,
	})
	require.NoError(t, err)

	second, err := svc.Create(context.Background(), &BookingRequest{
		RoomID:     room.ID,
		CheckIn:    "2025-04-10",
		CheckOut:   "2025-04-12",
		GuestCount: 1,
		Guest:      guest,
	})
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID, "same email resolves to the same account")

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users, "no duplicate account for a resubmitted email")

	var stored models.User
	require.NoError(t, db.First(&stored, first.UserID).Error)
	assert.Equal(t, "jane@example.com", stored.Email, "email stored lowercased")
}

func TestCreateResolvesOwner(t *testing.T) {
	db := newTestDB(t)
	room := seedRoom(t, db, 1000)
	svc := NewBookingService(db, nil)

	t.Run("authenticated caller owns the booking", func(t *testing.T) {
		user := seedUser(t, db, "member@example.com")
		booking, err := svc.Create(context.Background(), &BookingRequest{
			RoomID:     room.ID,
			CheckIn:    "2025-05-01",
			CheckOut:   "2025-05-03",
			GuestCount: 1,
			UserID:     user.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID, booking.UserID)
	})

	t.Run("existing account is reused for a matching guest email", func(t *testing.T) {
		user := seedUser(t, db, "regular@example.com")
		booking, err := svc.Create(context.Background(), &BookingRequest{
			RoomID:     room.ID,
			CheckIn:    "2025-06-01",
			CheckOut:   "2025-06-03",
			GuestCount: 1,
			Guest:      &GuestContact{FirstName: "Reg", Email: "regular@example.com"},
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID, booking.UserID)
	})

	t.Run("no session and no contact synthesizes a guest", func(t *testing.T) {
		booking, err := svc.Create(context.Background(), &BookingRequest{
			RoomID:     room.ID,
			CheckIn:    "2025-07-01",
			CheckOut:   "2025-07-03",
			GuestCount: 1,
		})
		require.NoError(t, err)

		var owner models.User
		require.NoError(t, db.First(&owner, booking.UserID).Error)
		assert.Contains(t, owner.Email, "@guests.local")
		assert.Equal(t, models.RoleUser, owner.Role)
	})
}

func TestCheckAvailabilityAgainstStore(t *testing.T) {
	db := newTestDB(t)
	room := seedRoom(t, db, 1200)
	owner := seedUser(t, db, "first@example.com")
	seedBooking(t, db, room.ID, owner.ID, models.StatusConfirmed, "2025-03-12", "2025-03-16")
	svc := NewBookingService(db, nil)

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     bool
	}{
		{"disjoint", "2025-03-20", "2025-03-22", true},
		{"overlapping", "2025-03-14", "2025-03-18", false},
		{"touching boundary", "2025-03-16", "2025-03-18", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			available, _, err := svc.CheckAvailability(context.Background(), room.ID, tt.checkIn, tt.checkOut)
			require.NoError(t, err)
			assert.Equal(t, tt.want, available)
		})
	}

	t.Run("availability flag short-circuits", func(t *testing.T) {
		require.NoError(t, db.Model(room).Update("is_available", false).Error)
		available, message, err := svc.CheckAvailability(context.Background(), room.ID, "2025-03-20", "2025-03-22")
		require.NoError(t, err)
		assert.False(t, available)
		assert.Equal(t, "room is not available", message)
	})
}

func TestCancelLifecycleAgainstStore(t *testing.T) {
	db := newTestDB(t)
	room := seedRoom(t, db, 1200)
	owner := seedUser(t, db, "owner@example.com")
	booking := seedBooking(t, db, room.ID, owner.ID, models.StatusConfirmed, "2025-03-12", "2025-03-16")
	svc := NewBookingService(db, nil)

	actor := Actor{UserID: owner.ID}
	cancelled, err := svc.Cancel(context.Background(), booking.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	// a repeated cancel is an error, never a silent success
	_, err = svc.Cancel(context.Background(), booking.ID, actor)
	assert.ErrorIs(t, err, ErrCannotCancel)

	// the cancelled booking no longer blocks the dates
	available, _, err := svc.CheckAvailability(context.Background(), room.ID, "2025-03-12", "2025-03-16")
	require.NoError(t, err)
	assert.True(t, available)
}
