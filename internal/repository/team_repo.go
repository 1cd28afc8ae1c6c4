package repository

import (
	"context"

	"gorm.io/gorm"

	"turnario/backend/internal/model"
)

// TeamRepository reads teams and their rosters.
type TeamRepository interface {
	GetByID(ctx context.Context, teamID string) (*model.Team, error)
	ListActive(ctx context.Context) ([]model.Team, error)
	ListWorkers(ctx context.Context, teamID string) ([]model.Worker, error)
	GetWorker(ctx context.Context, workerID string) (*model.Worker, error)
}

type teamRepository struct {
	db *gorm.DB
}

func newTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) GetByID(ctx context.Context, teamID string) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).First(&team, "team_id = ?", teamID).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) ListActive(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name").
		Find(&teams).Error
	return teams, err
}

func (r *teamRepository) ListWorkers(ctx context.Context, teamID string) ([]model.Worker, error) {
	var workers []model.Worker
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND active = ?", teamID, true).
		Order("name").
		Find(&workers).Error
	return workers, err
}

func (r *teamRepository) GetWorker(ctx context.Context, workerID string) (*model.Worker, error) {
	var worker model.Worker
	if err := r.db.WithContext(ctx).First(&worker, "worker_id = ?", workerID).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}
