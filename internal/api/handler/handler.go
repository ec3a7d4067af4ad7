package handler

import (
	"go.uber.org/zap"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/service"
)

// Handler aggregates every handler.
type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Course    *CourseHandler
	Lookup    *LookupHandler
	Applicant *ApplicantHandler
	Overview  *OverviewHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service, allowOrigins []string, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		User:      NewUserHandler(svc.User),
		Course:    NewCourseHandler(svc.Course),
		Lookup:    NewLookupHandler(svc.Lookup),
		Applicant: NewApplicantHandler(svc.Applicant, allowOrigins, logger),
		Overview:  NewOverviewHandler(svc.Overview),
	}
}
