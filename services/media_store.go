package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tripwise/tripmedia/models"
)

// MediaStore is the durable keyed store for media records. Each Save is an
// atomic per-record upsert; no operation spans multiple records.
type MediaStore interface {
	Save(ctx context.Context, m *models.Media) error
	// FindByID returns ErrNotFound when the id does not exist.
	FindByID(ctx context.Context, id string) (*models.Media, error)
	// FindByIDs returns the subset of records that exist; missing ids are
	// silently omitted.
	FindByIDs(ctx context.Context, ids []string) ([]models.Media, error)
}

// GormMediaStore persists media records through GORM.
type GormMediaStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewGormMediaStore(db *gorm.DB, log *zap.Logger) *GormMediaStore {
	return &GormMediaStore{db: db, logger: log}
}

func (s *GormMediaStore) Save(ctx context.Context, m *models.Media) error {
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		s.logger.Error("failed to save media record", zap.String("media_id", m.ID), zap.Error(err))
		return fmt.Errorf("save media %s: %w", m.ID, err)
	}
	return nil
}

func (s *GormMediaStore) FindByID(ctx context.Context, id string) (*models.Media, error) {
	var m models.Media
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find media %s: %w", id, err)
	}
	return &m, nil
}

func (s *GormMediaStore) FindByIDs(ctx context.Context, ids []string) ([]models.Media, error) {
	if len(ids) == 0 {
		return []models.Media{}, nil
	}
	var out []models.Media
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("find media batch: %w", err)
	}
	return out, nil
}
