package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/lookup"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/repository"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/review"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/seed"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/events"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/kv"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[int64]*model.User
	nextID int64
	err    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User), nextID: 100}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == 0 {
		m.nextID++
		user.UserID = m.nextID
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, role model.Role, offset, limit int) ([]model.User, int64, error) {
	all, _ := m.ListAll(context.Background())
	var filtered []model.User
	for _, u := range all {
		if role == "" || u.Role == role {
			filtered = append(filtered, u)
		}
	}
	total := int64(len(filtered))
	if offset >= len(filtered) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], total, nil
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[int64]*model.Course
	nextID  int64
	err     error
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[int64]*model.Course), nextID: 100}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == 0 {
		m.nextID++
		course.CourseID = m.nextID
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id int64) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByCode(_ context.Context, code string) (*model.Course, error) {
	for _, c := range m.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := make([]model.Course, 0, len(m.courses))
	for _, c := range m.courses {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseID < result[j].CourseID })
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id int64) error {
	delete(m.courses, id)
	return nil
}

// ── Recording publisher ──

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Name
	}
	return out
}

// ── test environment ──

type testEnv struct {
	users     *mockUserRepo
	courses   *mockCourseRepo
	kv        *kv.Memory
	repo      *repository.Repository
	directory *lookup.Directory
	workflow  *review.Workflow
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := kv.NewMemory()
	env := &testEnv{
		users:     newMockUserRepo(),
		courses:   newMockCourseRepo(),
		kv:        store,
		publisher: &recordingPublisher{},
	}
	env.repo = &repository.Repository{
		User:      env.users,
		Course:    env.courses,
		Snapshots: repository.NewSnapshots(store),
	}
	env.directory = lookup.NewDirectory(ctx, env.repo, zap.NewNop())
	env.workflow = review.NewWorkflow(review.NewStore(ctx, env.repo.Snapshots.Applicants, seed.Applicants, zap.NewNop()))
	return env
}

func (e *testEnv) addUser(id int64, name, email, password string, role model.Role) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{UserID: id, Name: name, Email: email, PasswordHash: string(hash), Role: role}
	e.users.users[id] = u
	return u
}

func (e *testEnv) addCourse(id int64, code, name string) *model.Course {
	c := &model.Course{CourseID: id, Code: code, Name: name}
	e.courses.courses[id] = c
	return c
}

var errDatabaseDown = errors.New("database down")
