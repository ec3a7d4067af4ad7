package lookup

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/repository"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/seed"
)

// ErrUnknownKind is returned for kinds other than users and courses.
var ErrUnknownKind = errors.New("unknown lookup kind")

// Directory resolves both users and courses.
type Directory struct {
	Users   *Cache[model.UserSummary]
	Courses *Cache[model.CourseSummary]
	logger  *zap.Logger
}

// UserLabel labels a user by name.
func UserLabel(u model.UserSummary) (int64, string) { return u.ID, u.Name }

// CourseLabel labels a course by its display code.
func CourseLabel(c model.CourseSummary) (int64, string) { return c.ID, c.Code }

// NewDirectory wires the remote tier to the GORM repositories, the persisted
// tier to the users/courses snapshots and the default tier to the built-in
// seed data.
func NewDirectory(ctx context.Context, repo *repository.Repository, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	var users Source[model.UserSummary]
	var courses Source[model.CourseSummary]
	if repo.User != nil {
		users = SourceFunc[model.UserSummary](func(ctx context.Context) ([]model.UserSummary, error) {
			rows, err := repo.User.ListAll(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]model.UserSummary, 0, len(rows))
			for i := range rows {
				out = append(out, rows[i].Summary())
			}
			return out, nil
		})
	}
	if repo.Course != nil {
		courses = SourceFunc[model.CourseSummary](func(ctx context.Context) ([]model.CourseSummary, error) {
			rows, err := repo.Course.List(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]model.CourseSummary, 0, len(rows))
			for i := range rows {
				out = append(out, rows[i].Summary())
			}
			return out, nil
		})
	}

	var userSnap repository.SnapshotRepository[model.UserSummary]
	var courseSnap repository.SnapshotRepository[model.CourseSummary]
	if repo.Snapshots != nil {
		userSnap = repo.Snapshots.Users
		courseSnap = repo.Snapshots.Courses
	}

	return &Directory{
		Users: NewCache(ctx, CacheOptions[model.UserSummary]{
			Kind:     KindUser,
			Label:    UserLabel,
			Source:   users,
			Snapshot: userSnap,
			Defaults: seed.Users(),
			Logger:   logger,
		}),
		Courses: NewCache(ctx, CacheOptions[model.CourseSummary]{
			Kind:     KindCourse,
			Label:    CourseLabel,
			Source:   courses,
			Snapshot: courseSnap,
			Defaults: seed.Courses(),
			Logger:   logger,
		}),
		logger: logger,
	}
}

// UserName resolves a user id.
func (d *Directory) UserName(id int64) string { return d.Users.Resolve(id) }

// CourseCode resolves a course id to its display code.
func (d *Directory) CourseCode(id int64) string { return d.Courses.Resolve(id) }

// Resolve dispatches on kind.
func (d *Directory) Resolve(kind Kind, id int64) (string, error) {
	switch kind {
	case KindUser:
		return d.UserName(id), nil
	case KindCourse:
		return d.CourseCode(id), nil
	}
	return "", ErrUnknownKind
}

// RefreshAll refreshes both kinds concurrently. Each kind keeps its own
// outcome; the first error is returned.
func (d *Directory) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return d.Users.Refresh(ctx) })
	g.Go(func() error { return d.Courses.Refresh(ctx) })
	return g.Wait()
}

// StartBackground runs the first refresh without blocking. Until it
// completes, resolutions come from the persisted and default tiers. A refresh
// finishing after ctx is cancelled is dropped silently.
func (d *Directory) StartBackground(ctx context.Context, timeout time.Duration) {
	go func() {
		rctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := d.RefreshAll(rctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			d.logger.Warn("initial lookup refresh failed; serving fallback tiers", zap.Error(err))
			return
		}
		d.logger.Info("lookup directory populated")
	}()
}
