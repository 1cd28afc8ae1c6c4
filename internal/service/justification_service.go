package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"turnario/backend/internal/dto"
	"turnario/backend/internal/model"
	"turnario/backend/internal/repository"
)

var (
	ErrAbsenceNotFound       = errors.New("absence not found")
	ErrJustificationNotFound = errors.New("justification not found")
	ErrPendingExists         = errors.New("the absence already has a pending justification")
	ErrAbsenceAdjudicated    = errors.New("the absence was already adjudicated")
	ErrAlreadyDecided        = errors.New("the justification was already decided")
	ErrJustificationTarget   = errors.New("provide either an absence id or a team id and date")
	ErrNoAbsencesForTeamDate = errors.New("the team has no open absences on that date")
)

// JustificationService runs the absence adjudication state machine.
// Absences move pending -> under_review on submission and settle to
// justified or unjustified when a supervisor decides.
type JustificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewJustificationService(repo *repository.Repository, logger *zap.Logger) *JustificationService {
	return &JustificationService{repo: repo, logger: logger}
}

// Submit opens a justification for one absence, or for every open
// absence of a team on one date.
func (s *JustificationService) Submit(ctx context.Context, req dto.SubmitJustificationRequest, actor model.Actor) (*model.Justification, error) {
	individual := req.AbsenceID != ""
	team := req.TeamID != "" && req.Date != ""
	if individual == team {
		return nil, ErrJustificationTarget
	}
	if team {
		if _, err := time.Parse(model.DateLayout, req.Date); err != nil {
			return nil, ErrDateFormat
		}
	}

	justification := &model.Justification{
		Reason: req.Reason,
		Status: model.JustificationStatusPending,
		BaseModel: model.BaseModel{
			CreatedBy: actor.IDRef(),
			UpdatedBy: actor.IDRef(),
		},
		Version: 1,
	}
	if req.AttachmentURL != "" {
		justification.AttachmentURL = &req.AttachmentURL
	}

	if individual {
		return s.submitIndividual(ctx, justification, req.AbsenceID, actor)
	}
	return s.submitTeam(ctx, justification, req.TeamID, req.Date, actor)
}

func (s *JustificationService) submitIndividual(ctx context.Context, justification *model.Justification, absenceID string, actor model.Actor) (*model.Justification, error) {
	absence, err := s.repo.Absence.GetByID(ctx, absenceID)
	if err != nil {
		return nil, ErrAbsenceNotFound
	}
	if absence.Adjudicated() {
		return nil, ErrAbsenceAdjudicated
	}
	if pending, err := s.repo.Justification.GetPendingByAbsence(ctx, absenceID); err != nil {
		return nil, err
	} else if pending != nil {
		return nil, ErrPendingExists
	}

	justification.Kind = model.JustificationKindIndividual
	justification.AbsenceID = &absence.AbsenceID
	justification.TeamID = &absence.TeamID
	justification.Date = &absence.Date

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Justification.Create(ctx, justification); err != nil {
			return err
		}
		if absence.Status == model.AbsenceStatusPending {
			return tx.Absence.UpdateStatus(ctx, absence.AbsenceID, model.AbsenceStatusUnderReview, absence.Version, actor.IDRef())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("justification submitted",
		zap.String("justification_id", justification.JustificationID),
		zap.String("absence_id", absenceID),
	)
	return justification, nil
}

func (s *JustificationService) submitTeam(ctx context.Context, justification *model.Justification, teamID, date string, actor model.Actor) (*model.Justification, error) {
	if _, err := s.repo.Team.GetByID(ctx, teamID); err != nil {
		return nil, ErrTeamNotFound
	}
	absences, err := s.repo.Absence.ListByTeamDate(ctx, teamID, date)
	if err != nil {
		return nil, err
	}
	open := openAbsences(absences)
	if len(open) == 0 {
		return nil, ErrNoAbsencesForTeamDate
	}

	justification.Kind = model.JustificationKindTeam
	justification.TeamID = &teamID
	justification.Date = &date

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Justification.Create(ctx, justification); err != nil {
			return err
		}
		for _, a := range open {
			if a.Status != model.AbsenceStatusPending {
				continue
			}
			if err := tx.Absence.UpdateStatus(ctx, a.AbsenceID, model.AbsenceStatusUnderReview, a.Version, actor.IDRef()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team justification submitted",
		zap.String("justification_id", justification.JustificationID),
		zap.String("team_id", teamID),
		zap.String("date", date),
		zap.Int("absences", len(open)),
	)
	return justification, nil
}

// Approve settles the justification and flips its targeted absences to
// justified.
func (s *JustificationService) Approve(ctx context.Context, justificationID string, actor model.Actor) error {
	return s.decide(ctx, justificationID, model.JustificationStatusApproved, model.AbsenceStatusJustified, actor)
}

// Reject settles the justification and flips its targeted absences to
// unjustified.
func (s *JustificationService) Reject(ctx context.Context, justificationID string, actor model.Actor) error {
	return s.decide(ctx, justificationID, model.JustificationStatusRejected, model.AbsenceStatusUnjustified, actor)
}

func (s *JustificationService) decide(ctx context.Context, justificationID, verdict, absenceStatus string, actor model.Actor) error {
	justification, err := s.repo.Justification.GetByID(ctx, justificationID)
	if err != nil {
		return ErrJustificationNotFound
	}
	if justification.Decided() {
		return ErrAlreadyDecided
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Justification.Decide(ctx, justificationID, verdict, justification.Version, actor.IDRef()); err != nil {
			return err
		}

		switch justification.Kind {
		case model.JustificationKindIndividual:
			absence, err := tx.Absence.GetByID(ctx, *justification.AbsenceID)
			if err != nil {
				return err
			}
			if absence.Adjudicated() {
				return nil
			}
			return tx.Absence.UpdateStatus(ctx, absence.AbsenceID, absenceStatus, absence.Version, actor.IDRef())

		case model.JustificationKindTeam:
			absences, err := tx.Absence.ListByTeamDate(ctx, *justification.TeamID, *justification.Date)
			if err != nil {
				return err
			}
			for _, a := range openAbsences(absences) {
				if err := tx.Absence.UpdateStatus(ctx, a.AbsenceID, absenceStatus, a.Version, actor.IDRef()); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("justification decided",
		zap.String("justification_id", justificationID),
		zap.String("verdict", verdict),
	)
	return nil
}

// Get returns one justification.
func (s *JustificationService) Get(ctx context.Context, justificationID string) (*model.Justification, error) {
	justification, err := s.repo.Justification.GetByID(ctx, justificationID)
	if err != nil {
		return nil, ErrJustificationNotFound
	}
	return justification, nil
}

// List pages through the justification queue.
func (s *JustificationService) List(ctx context.Context, req dto.ListJustificationsRequest) ([]model.Justification, int64, error) {
	return s.repo.Justification.List(ctx, repository.JustificationFilter{
		Status: req.Status,
		TeamID: req.TeamID,
		Kind:   req.Kind,
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	})
}

func openAbsences(absences []model.Absence) []model.Absence {
	open := make([]model.Absence, 0, len(absences))
	for _, a := range absences {
		if !a.Adjudicated() {
			open = append(open, a)
		}
	}
	return open
}
