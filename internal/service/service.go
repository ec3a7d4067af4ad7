package service

import (
	"go.uber.org/zap"

	"github.com/Noah-Bakr/Teach-Team-sub001/config"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/lookup"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/repository"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/review"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/events"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/jwt"
)

// Service aggregates every service.
type Service struct {
	Auth      AuthService
	User      UserService
	Course    CourseService
	Lookup    LookupService
	Applicant ApplicantService
	Overview  OverviewService
}

// NewService creates the Service aggregate.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	directory *lookup.Directory,
	workflow *review.Workflow,
	publisher events.Publisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, logger),
		User:      NewUserService(repo, directory, logger),
		Course:    NewCourseService(repo, directory, logger),
		Lookup:    NewLookupService(directory, logger),
		Applicant: NewApplicantService(repo, workflow, directory, publisher, logger),
		Overview:  NewOverviewService(workflow.Store(), directory, logger),
	}
}
