package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"hotel-booking-api/models"
)

// RoomInput is the create/update payload for a room. Pointer fields
// distinguish "absent" from zero on updates.
type RoomInput struct {
	Name        string
	Category    string
	Price       *float64
	Capacity    *int
	Description string
	Amenities   []string
	Images      []string
	IsAvailable *bool
}

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.WithContext(ctx).Order("id").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to load room %d: %w", id, err)
	}
	return &room, nil
}

func marshalList(items []string) ([]byte, error) {
	if items == nil {
		return nil, nil
	}
	return json.Marshal(items)
}

func (s *RoomService) Create(ctx context.Context, input RoomInput) (*models.Room, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Price == nil || input.Capacity == nil {
		return nil, ErrMissingFields
	}
	if !models.ValidRoomCategory(input.Category) {
		return nil, ErrInvalidCategory
	}
	if *input.Price < 0 || *input.Capacity <= 0 {
		return nil, fmt.Errorf("%w: price must be non-negative, capacity positive", ErrMissingFields)
	}

	room := models.Room{
		Name:        name,
		Category:    input.Category,
		Price:       *input.Price,
		Capacity:    *input.Capacity,
		Description: strings.TrimSpace(input.Description),
		IsAvailable: true,
	}
	if input.IsAvailable != nil {
		room.IsAvailable = *input.IsAvailable
	}
	if b, err := marshalList(input.Amenities); err == nil && b != nil {
		room.Amenities = b
	}
	if b, err := marshalList(input.Images); err == nil && b != nil {
		room.Images = b
	}

	if err := s.DB.WithContext(ctx).Create(&room).Error; err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return &room, nil
}

func (s *RoomService) Update(ctx context.Context, id uint, input RoomInput) (*models.Room, error) {
	room, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(input.Name); v != "" {
		room.Name = v
	}
	if input.Category != "" {
		if !models.ValidRoomCategory(input.Category) {
			return nil, ErrInvalidCategory
		}
		room.Category = input.Category
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, fmt.Errorf("%w: price must be non-negative", ErrMissingFields)
		}
		room.Price = *input.Price
	}
	if input.Capacity != nil {
		if *input.Capacity <= 0 {
			return nil, fmt.Errorf("%w: capacity must be positive", ErrMissingFields)
		}
		room.Capacity = *input.Capacity
	}
	if v := strings.TrimSpace(input.Description); v != "" {
		room.Description = v
	}
	if input.IsAvailable != nil {
		room.IsAvailable = *input.IsAvailable
	}
	if b, err := marshalList(input.Amenities); err == nil && b != nil {
		room.Amenities = b
	}
	if b, err := marshalList(input.Images); err == nil && b != nil {
		room.Images = b
	}

	if err := s.DB.WithContext(ctx).Save(room).Error; err != nil {
		return nil, fmt.Errorf("failed to update room %d: %w", id, err)
	}
	return room, nil
}

// Delete removes a room unless bookings still reference it. Existing
// bookings keep their history; deleting the room out from under them would
// orphan the records.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	var bookings int64
	if err := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ?", id).Count(&bookings).Error; err != nil {
		return fmt.Errorf("failed to count bookings for room %d: %w", id, err)
	}
	if bookings > 0 {
		return ErrRoomHasBookings
	}

	res := s.DB.WithContext(ctx).Delete(&models.Room{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete room %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}
