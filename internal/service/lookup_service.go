package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/dto"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/lookup"
)

// ── lookup errors ──

var (
	ErrLookupRefreshFailed = errors.New("lookup refresh failed")
)

// LookupService display-name resolution
type LookupService interface {
	Resolve(ctx context.Context, kind string, id int64) (*dto.LookupResponse, error)
	// Refresh forces a remote fetch of both kinds. The response reports which
	// remote tiers are populated even when an error is returned.
	Refresh(ctx context.Context) (*dto.LookupRefreshResponse, error)
}

type lookupService struct {
	directory *lookup.Directory
	logger    *zap.Logger
}

// NewLookupService creates a LookupService.
func NewLookupService(directory *lookup.Directory, logger *zap.Logger) LookupService {
	return &lookupService{directory: directory, logger: logger}
}

func (s *lookupService) Resolve(_ context.Context, kind string, id int64) (*dto.LookupResponse, error) {
	name, err := s.directory.Resolve(lookup.Kind(kind), id)
	if err != nil {
		return nil, err
	}
	return &dto.LookupResponse{Kind: kind, ID: id, Name: name}, nil
}

func (s *lookupService) Refresh(ctx context.Context) (*dto.LookupRefreshResponse, error) {
	err := s.directory.RefreshAll(ctx)
	resp := &dto.LookupRefreshResponse{
		Users:   s.directory.Users.Populated(),
		Courses: s.directory.Courses.Populated(),
	}
	if err != nil {
		s.logger.Warn("manual lookup refresh failed", zap.Error(err))
		return resp, ErrLookupRefreshFailed
	}
	return resp, nil
}
