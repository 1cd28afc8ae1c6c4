package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"turnario/backend/internal/model"
	pkgerrors "turnario/backend/pkg/errors"
)

// JustificationFilter narrows justification listings.
type JustificationFilter struct {
	Status string
	TeamID string
	Kind   string
	Offset int
	Limit  int
}

// JustificationRepository persists justification requests.
type JustificationRepository interface {
	Create(ctx context.Context, justification *model.Justification) error
	GetByID(ctx context.Context, justificationID string) (*model.Justification, error)

	// GetPendingByAbsence returns the open justification for an absence,
	// or nil when there is none.
	GetPendingByAbsence(ctx context.Context, absenceID string) (*model.Justification, error)

	List(ctx context.Context, filter JustificationFilter) ([]model.Justification, int64, error)

	// Decide moves a justification to approved or rejected under
	// optimistic locking. Returns ErrOptimisticLock when the version
	// moved.
	Decide(ctx context.Context, justificationID, status string, version int, decidedBy *string) error
}

type justificationRepository struct {
	db *gorm.DB
}

func newJustificationRepository(db *gorm.DB) JustificationRepository {
	return &justificationRepository{db: db}
}

func (r *justificationRepository) Create(ctx context.Context, justification *model.Justification) error {
	return r.db.WithContext(ctx).Create(justification).Error
}

func (r *justificationRepository) GetByID(ctx context.Context, justificationID string) (*model.Justification, error) {
	var justification model.Justification
	if err := r.db.WithContext(ctx).First(&justification, "justification_id = ?", justificationID).Error; err != nil {
		return nil, err
	}
	return &justification, nil
}

func (r *justificationRepository) GetPendingByAbsence(ctx context.Context, absenceID string) (*model.Justification, error) {
	var justification model.Justification
	err := r.db.WithContext(ctx).
		Where("absence_id = ? AND status = ?", absenceID, model.JustificationStatusPending).
		First(&justification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &justification, nil
}

func (r *justificationRepository) List(ctx context.Context, filter JustificationFilter) ([]model.Justification, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Justification{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TeamID != "" {
		query = query.Where("team_id = ?", filter.TeamID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var justifications []model.Justification
	err := query.Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&justifications).Error
	return justifications, total, err
}

func (r *justificationRepository) Decide(ctx context.Context, justificationID, status string, version int, decidedBy *string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.Justification{}).
		Where("justification_id = ? AND version = ?", justificationID, version).
		Updates(map[string]interface{}{
			"status":     status,
			"version":    version + 1,
			"decided_by": decidedBy,
			"decided_at": now,
			"updated_by": decidedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}
