package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hotel-booking-api/logger"
	"hotel-booking-api/models"
)

// SpaCatalogSource abstracts where spa catalog reads come from. Two
// implementations exist: the persistent store and the built-in static
// catalog the service falls back to when the store is unreachable.
type SpaCatalogSource interface {
	List(ctx context.Context, category string) ([]models.SpaService, error)
	Get(ctx context.Context, id uint) (*models.SpaService, error)
}

type gormSpaSource struct {
	db *gorm.DB
}

func (s *gormSpaSource) List(ctx context.Context, category string) ([]models.SpaService, error) {
	q := s.db.WithContext(ctx).Where("is_available = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var services []models.SpaService
	if err := q.Order("id").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (s *gormSpaSource) Get(ctx context.Context, id uint) (*models.SpaService, error) {
	var service models.SpaService
	if err := s.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

type staticSpaSource struct {
	items []models.SpaService
}

func (s *staticSpaSource) List(_ context.Context, category string) ([]models.SpaService, error) {
	out := make([]models.SpaService, 0, len(s.items))
	for _, item := range s.items {
		if !item.IsAvailable {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *staticSpaSource) Get(_ context.Context, id uint) (*models.SpaService, error) {
	for _, item := range s.items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// SpaService serves the spa catalog. Reads prefer the persistent source and
// degrade to the static catalog when the store does not answer a ping; writes
// always hit the store.
type SpaService struct {
	DB       *gorm.DB
	primary  SpaCatalogSource
	fallback SpaCatalogSource
}

func NewSpaService(db *gorm.DB, fallbackCatalog []models.SpaService) *SpaService {
	return &SpaService{
		DB:       db,
		primary:  &gormSpaSource{db: db},
		fallback: &staticSpaSource{items: fallbackCatalog},
	}
}

func (s *SpaService) storeHealthy(ctx context.Context) bool {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return sqlDB.PingContext(pingCtx) == nil
}

func (s *SpaService) source(ctx context.Context) SpaCatalogSource {
	if s.storeHealthy(ctx) {
		return s.primary
	}
	logger.Warn("spa catalog: store unreachable, serving static catalog")
	return s.fallback
}

// List returns available spa services, optionally filtered by category.
func (s *SpaService) List(ctx context.Context, category string) ([]models.SpaService, error) {
	category = strings.TrimSpace(category)
	if category != "" && !models.ValidSpaCategory(category) {
		return nil, ErrInvalidCategory
	}

	services, err := s.source(ctx).List(ctx, category)
	if err != nil {
		logger.Warn("spa catalog: store read failed, serving static catalog", zap.Error(err))
		return s.fallback.List(ctx, category)
	}
	return services, nil
}

func (s *SpaService) GetByID(ctx context.Context, id uint) (*models.SpaService, error) {
	service, err := s.source(ctx).Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpaNotFound
		}
		logger.Warn("spa catalog: store read failed, serving static catalog", zap.Error(err))
		service, err = s.fallback.Get(ctx, id)
		if err != nil {
			return nil, ErrSpaNotFound
		}
	}
	return service, nil
}

func (s *SpaService) Create(ctx context.Context, service *models.SpaService) error {
	if strings.TrimSpace(service.Title) == "" || service.Price < 0 {
		return ErrMissingFields
	}
	if !models.ValidSpaCategory(service.Category) {
		return ErrInvalidCategory
	}
	if err := s.DB.WithContext(ctx).Create(service).Error; err != nil {
		return fmt.Errorf("failed to create spa service: %w", err)
	}
	return nil
}

func (s *SpaService) Update(ctx context.Context, id uint, update *models.SpaService) (*models.SpaService, error) {
	var service models.SpaService
	if err := s.DB.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpaNotFound
		}
		return nil, fmt.Errorf("failed to load spa service %d: %w", id, err)
	}

	if v := strings.TrimSpace(update.Title); v != "" {
		service.Title = v
	}
	if v := strings.TrimSpace(update.Description); v != "" {
		service.Description = v
	}
	if v := strings.TrimSpace(update.Duration); v != "" {
		service.Duration = v
	}
	if update.Price > 0 {
		service.Price = update.Price
	}
	if v := strings.TrimSpace(update.Image); v != "" {
		service.Image = v
	}
	if update.Category != "" {
		if !models.ValidSpaCategory(update.Category) {
			return nil, ErrInvalidCategory
		}
		service.Category = update.Category
	}
	service.IsAvailable = update.IsAvailable

	if err := s.DB.WithContext(ctx).Save(&service).Error; err != nil {
		return nil, fmt.Errorf("failed to update spa service %d: %w", id, err)
	}
	return &service, nil
}

func (s *SpaService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.SpaService{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete spa service %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSpaNotFound
	}
	return nil
}

// Book validates that a spa service can be booked. The booking itself is
// acknowledged, not persisted; the caller builds the acknowledgment from the
// returned service.
func (s *SpaService) Book(ctx context.Context, serviceID uint) (*models.SpaService, error) {
	service, err := s.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !service.IsAvailable {
		return nil, ErrSpaUnavailable
	}
	return service, nil
}
