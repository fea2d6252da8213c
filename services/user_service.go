package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"hotel-booking-api/models"
	"hotel-booking-api/utils"
)

// RegisterInput is the payload for self-registration. Role is always `user`;
// only the admin update path may change it.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Address   string
}

// ProfileUpdate carries the fields a user may change on their own account.
// Empty fields keep their current value.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Phone     string
	Address   string
}

// AdminUserUpdate extends ProfileUpdate with the admin-only fields.
type AdminUserUpdate struct {
	ProfileUpdate
	Email string
	Role  string
}

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Register creates a user account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.FirstName) == "" || input.Password == "" {
		return nil, ErrMissingFields
	}
	if len(input.Password) < 6 {
		return nil, ErrWeakPassword
	}

	var existing models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     email,
		Password:  hash,
		Phone:     strings.TrimSpace(input.Phone),
		Address:   strings.TrimSpace(input.Address),
		Role:      models.RoleUser,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Authenticate verifies email and password. An unknown email and a wrong
// password fail differently, matching the API contract.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !utils.VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return &user, nil
}

func (s *UserService) ListAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile applies the caller's own changes. Role and email are not
// touchable here.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(update.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(update.LastName); v != "" {
		user.LastName = v
	}
	if v := strings.TrimSpace(update.Phone); v != "" {
		user.Phone = v
	}
	if v := strings.TrimSpace(update.Address); v != "" {
		user.Address = v
	}

	if err := s.DB.WithContext(ctx).Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return user, nil
}

// AdminUpdate applies an administrator's changes, including email and role.
func (s *UserService) AdminUpdate(ctx context.Context, id uint, update AdminUserUpdate) (*models.User, error) {
	if update.Role != "" && update.Role != models.RoleUser && update.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrMissingFields, update.Role)
	}

	user, err := s.UpdateProfile(ctx, id, update.ProfileUpdate)
	if err != nil {
		return nil, err
	}

	changed := false
	if v := strings.ToLower(strings.TrimSpace(update.Email)); v != "" && v != user.Email {
		user.Email = v
		changed = true
	}
	if update.Role != "" && update.Role != user.Role {
		user.Role = update.Role
		changed = true
	}
	if changed {
		if err := s.DB.WithContext(ctx).Save(user).Error; err != nil {
			if isDuplicateKey(err) {
				return nil, ErrEmailTaken
			}
			return nil, fmt.Errorf("failed to update user %d: %w", id, err)
		}
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	if current == "" || next == "" {
		return ErrMissingFields
	}
	if len(next) < 6 {
		return ErrWeakPassword
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !utils.VerifyPassword(user.Password, current) {
		return ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.DB.WithContext(ctx).Model(user).Update("password", hash).Error; err != nil {
		return fmt.Errorf("failed to change password for user %d: %w", id, err)
	}
	return nil
}

// Delete removes a user unless bookings still reference them.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	var bookings int64
	if err := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("user_id = ?", id).Count(&bookings).Error; err != nil {
		return fmt.Errorf("failed to count bookings for user %d: %w", id, err)
	}
	if bookings > 0 {
		return ErrUserHasBookings
	}

	res := s.DB.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
