package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/dto"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/repository"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/review"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/events"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/metrics"
)

// ── applicant errors ──

var (
	ErrAlreadyApplied = errors.New("already applied for this course")
	ErrInvalidSortKey = errors.New("invalid sort key")
)

// ApplicantService candidate applications and the lecturer review workflow
type ApplicantService interface {
	Apply(ctx context.Context, userID int64, req *dto.ApplyRequest) (*dto.ApplicantResponse, error)
	Mine(ctx context.Context, userID int64) []dto.ApplicantResponse
	List(ctx context.Context, req *dto.ApplicantListRequest) ([]dto.ApplicantResponse, error)
	Selected(ctx context.Context) []dto.SelectedCardResponse
	ToggleSelected(ctx context.Context, id, actorID int64) (*dto.ApplicantResponse, error)
	SetRank(ctx context.Context, id int64, raw string, actorID int64) (*dto.ApplicantResponse, error)
	SetComment(ctx context.Context, id int64, raw string, actorID int64) (*dto.ApplicantResponse, error)
	// Watch streams the full table after every committed change until ctx ends.
	Watch(ctx context.Context) <-chan []dto.ApplicantResponse
}

type applicantService struct {
	repo      *repository.Repository
	workflow  *review.Workflow
	names     review.Names
	publisher events.Publisher
	logger    *zap.Logger
}

// NewApplicantService creates an ApplicantService.
func NewApplicantService(
	repo *repository.Repository,
	workflow *review.Workflow,
	names review.Names,
	publisher events.Publisher,
	logger *zap.Logger,
) ApplicantService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &applicantService{
		repo:      repo,
		workflow:  workflow,
		names:     names,
		publisher: publisher,
		logger:    logger,
	}
}

// ────────────────────── Apply ──────────────────────

func (s *applicantService) Apply(ctx context.Context, userID int64, req *dto.ApplyRequest) (*dto.ApplicantResponse, error) {
	if _, err := s.repo.Course.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("query course failed", zap.Int64("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}

	skills := make([]string, 0, len(req.Skills))
	for _, sk := range req.Skills {
		if sk = strings.TrimSpace(sk); sk != "" {
			skills = append(skills, sk)
		}
	}
	creds := make([]model.Credential, 0, len(req.AcademicCredentials))
	for _, c := range req.AcademicCredentials {
		creds = append(creds, model.Credential{
			Qualification: strings.TrimSpace(c.Qualification),
			Institution:   strings.TrimSpace(c.Institution),
			Year:          c.Year,
		})
	}

	a, err := s.workflow.Store().CreateUnique(ctx, model.Applicant{
		UserID:              userID,
		CourseID:            req.CourseID,
		Availability:        model.Availability(req.Availability),
		Skills:              skills,
		AcademicCredentials: creds,
	}, func(existing model.Applicant) bool {
		return existing.UserID == userID && existing.CourseID == req.CourseID
	})
	if errors.Is(err, review.ErrApplicantExists) {
		return nil, ErrAlreadyApplied
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ApplicationCreated, a, userID, map[string]interface{}{
		"availability": string(a.Availability),
	})

	resp := s.toResponse(a)
	return &resp, nil
}

// ────────────────────── Mine ──────────────────────

func (s *applicantService) Mine(_ context.Context, userID int64) []dto.ApplicantResponse {
	result := make([]dto.ApplicantResponse, 0)
	for _, a := range s.workflow.Store().Snapshot() {
		if a.UserID == userID {
			result = append(result, s.toResponse(a))
		}
	}
	return result
}

// ────────────────────── List ──────────────────────

func (s *applicantService) List(_ context.Context, req *dto.ApplicantListRequest) ([]dto.ApplicantResponse, error) {
	key, err := review.ParseSortKey(req.Sort)
	if err != nil {
		return nil, ErrInvalidSortKey
	}
	return s.toResponses(review.View(s.workflow.Store().Snapshot(), req.Query, key, s.names)), nil
}

// ────────────────────── Selected ──────────────────────

func (s *applicantService) Selected(_ context.Context) []dto.SelectedCardResponse {
	result := make([]dto.SelectedCardResponse, 0)
	for _, a := range s.workflow.Store().Snapshot() {
		if !a.Selected {
			continue
		}
		result = append(result, dto.SelectedCardResponse{
			ApplicantResponse: s.toResponse(a),
			Errors:            s.workflow.Errors(a.ID),
		})
	}
	return result
}

// ────────────────────── ToggleSelected ──────────────────────

func (s *applicantService) ToggleSelected(ctx context.Context, id, actorID int64) (*dto.ApplicantResponse, error) {
	a, err := s.workflow.ToggleSelected(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.ReviewMutations.WithLabelValues("selected", "committed").Inc()
	s.publish(ctx, events.ApplicantSelectionToggled, a, actorID, map[string]interface{}{
		"selected": a.Selected,
	})

	resp := s.toResponse(a)
	return &resp, nil
}

// ────────────────────── SetRank ──────────────────────

func (s *applicantService) SetRank(ctx context.Context, id int64, raw string, actorID int64) (*dto.ApplicantResponse, error) {
	a, err := s.workflow.SetRank(ctx, id, raw)
	if err != nil {
		s.countRejection(review.FieldRank, err)
		return nil, err
	}
	metrics.ReviewMutations.WithLabelValues(review.FieldRank, "committed").Inc()
	s.publish(ctx, events.ApplicantRankSet, a, actorID, map[string]interface{}{
		"rank": *a.Rank,
	})

	resp := s.toResponse(a)
	return &resp, nil
}

// ────────────────────── SetComment ──────────────────────

func (s *applicantService) SetComment(ctx context.Context, id int64, raw string, actorID int64) (*dto.ApplicantResponse, error) {
	a, err := s.workflow.SetComment(ctx, id, raw)
	if err != nil {
		s.countRejection(review.FieldComment, err)
		return nil, err
	}
	metrics.ReviewMutations.WithLabelValues(review.FieldComment, "committed").Inc()
	s.publish(ctx, events.ApplicantCommentSet, a, actorID, map[string]interface{}{
		"cleared": a.Comment == nil,
	})

	resp := s.toResponse(a)
	return &resp, nil
}

// ────────────────────── Watch ──────────────────────

func (s *applicantService) Watch(ctx context.Context) <-chan []dto.ApplicantResponse {
	in, cancel := s.workflow.Store().Subscribe()
	out := make(chan []dto.ApplicantResponse, 1)

	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case items, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- s.toResponses(items):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// ── helpers ──

func (s *applicantService) countRejection(field string, err error) {
	var verr *review.ValidationError
	if errors.As(err, &verr) {
		metrics.ReviewMutations.WithLabelValues(field, "rejected").Inc()
	}
}

func (s *applicantService) publish(ctx context.Context, name string, a model.Applicant, actorID int64, props map[string]interface{}) {
	ev := events.New(name)
	ev.ApplicantID = a.ID
	ev.UserID = a.UserID
	ev.CourseID = a.CourseID
	ev.ActorID = actorID
	ev.Properties = props
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("publish review event failed",
			zap.String("event", name), zap.Int64("applicant_id", a.ID), zap.Error(err))
	}
}

func (s *applicantService) toResponses(items []model.Applicant) []dto.ApplicantResponse {
	result := make([]dto.ApplicantResponse, 0, len(items))
	for _, a := range items {
		result = append(result, s.toResponse(a))
	}
	return result
}

func (s *applicantService) toResponse(a model.Applicant) dto.ApplicantResponse {
	skills := a.Skills
	if skills == nil {
		skills = []string{}
	}
	creds := a.AcademicCredentials
	if creds == nil {
		creds = []model.Credential{}
	}
	return dto.ApplicantResponse{
		ID:                  a.ID,
		UserID:              a.UserID,
		UserName:            s.names.UserName(a.UserID),
		CourseID:            a.CourseID,
		CourseCode:          s.names.CourseCode(a.CourseID),
		Availability:        string(a.Availability),
		Skills:              skills,
		AcademicCredentials: creds,
		Selected:            a.Selected,
		Rank:                a.Rank,
		Comment:             a.Comment,
	}
}
