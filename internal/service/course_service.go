package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/dto"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/lookup"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/repository"
)

// ── course errors ──

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrCourseCodeExists = errors.New("course code already exists")
)

// CourseService course catalogue
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id int64) error
}

type courseService struct {
	repo      *repository.Repository
	directory *lookup.Directory
	logger    *zap.Logger
}

// NewCourseService creates a CourseService. Writes refresh the course lookup
// when directory is set.
func NewCourseService(repo *repository.Repository, directory *lookup.Directory, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, directory: directory, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	code := normalizeCourseCode(req.Code)
	if _, err := s.repo.Course.GetByCode(ctx, code); err == nil {
		return nil, ErrCourseCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	course := &model.Course{Code: code, Name: strings.TrimSpace(req.Name)}
	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("create course failed", zap.Error(err))
		return nil, err
	}

	s.refreshLookup(ctx)
	return toCourseResponse(course), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id int64) (*dto.CourseResponse, error) {
	course, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── List ──────────────────────

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("list courses failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id int64, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := normalizeCourseCode(*req.Code)
		if code != course.Code {
			if _, err := s.repo.Course.GetByCode(ctx, code); err == nil {
				return nil, ErrCourseCodeExists
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		course.Code = code
	}
	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("update course failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	s.refreshLookup(ctx)
	return toCourseResponse(course), nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("delete course failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	s.refreshLookup(ctx)
	return nil
}

// ── helpers ──

func (s *courseService) get(ctx context.Context, id int64) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("query course failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func (s *courseService) refreshLookup(ctx context.Context) {
	if s.directory == nil {
		return
	}
	if err := s.directory.Courses.RefreshAfterWrite(ctx); err != nil {
		s.logger.Warn("refresh course lookup failed", zap.Error(err))
	}
}

func normalizeCourseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	return &dto.CourseResponse{ID: c.CourseID, Code: c.Code, Name: c.Name}
}
