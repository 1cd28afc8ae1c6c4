package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"turnario/backend/internal/dto"
	"turnario/backend/internal/model"
	"turnario/backend/internal/repository"
)

var (
	ErrOvertimeNotFound = errors.New("overtime not found")
	ErrOvertimeDecided  = errors.New("the overtime was already decided")
)

// OvertimeService adjudicates derived overtime records.
type OvertimeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewOvertimeService(repo *repository.Repository, logger *zap.Logger) *OvertimeService {
	return &OvertimeService{repo: repo, logger: logger}
}

// List pages through the overtime queue.
func (s *OvertimeService) List(ctx context.Context, req dto.ListOvertimesRequest) ([]model.Overtime, int64, error) {
	return s.repo.Overtime.List(ctx, repository.OvertimeFilter{
		Status:    req.Status,
		TeamID:    req.TeamID,
		WorkerID:  req.WorkerID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Offset:    req.GetOffset(),
		Limit:     req.GetPageSize(),
	})
}

// Get returns one overtime.
func (s *OvertimeService) Get(ctx context.Context, overtimeID string) (*model.Overtime, error) {
	overtime, err := s.repo.Overtime.GetByID(ctx, overtimeID)
	if err != nil {
		return nil, ErrOvertimeNotFound
	}
	return overtime, nil
}

// Approve settles a pending overtime as approved.
func (s *OvertimeService) Approve(ctx context.Context, overtimeID string, actor model.Actor) error {
	return s.decide(ctx, overtimeID, model.OvertimeStatusApproved, actor)
}

// Reject settles a pending overtime as rejected.
func (s *OvertimeService) Reject(ctx context.Context, overtimeID string, actor model.Actor) error {
	return s.decide(ctx, overtimeID, model.OvertimeStatusRejected, actor)
}

func (s *OvertimeService) decide(ctx context.Context, overtimeID, verdict string, actor model.Actor) error {
	overtime, err := s.repo.Overtime.GetByID(ctx, overtimeID)
	if err != nil {
		return ErrOvertimeNotFound
	}
	if overtime.Decided() {
		return ErrOvertimeDecided
	}

	if err := s.repo.Overtime.Decide(ctx, overtimeID, verdict, overtime.Version, actor.IDRef()); err != nil {
		return err
	}

	s.logger.Info("overtime decided",
		zap.String("overtime_id", overtimeID),
		zap.String("verdict", verdict),
	)
	return nil
}
