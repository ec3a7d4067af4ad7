package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/dto"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
)

func TestUserService_List_FilterByRole(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(1, "Alice", "alice@example.com", "password123", model.RoleCandidate)
	env.addUser(2, "Ben", "ben@example.com", "password123", model.RoleCandidate)
	env.addUser(10, "Maria", "maria@example.com", "password123", model.RoleLecturer)
	svc := NewUserService(env.repo, env.directory, zap.NewNop())

	users, total, err := svc.List(context.Background(), &dto.UserListRequest{Role: "candidate"})
	if err != nil {
		t.Fatalf("List should succeed: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Errorf("expected 2 candidates, got total=%d len=%d", total, len(users))
	}

	page, total, _ := svc.List(context.Background(), &dto.UserListRequest{
		PaginationRequest: dto.PaginationRequest{Page: 2, PageSize: 2},
	})
	if total != 3 || len(page) != 1 || page[0].ID != 10 {
		t.Errorf("unexpected second page %+v (total=%d)", page, total)
	}
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.repo, env.directory, zap.NewNop())

	if _, err := svc.GetByID(context.Background(), 404); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Create(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.repo, env.directory, zap.NewNop())

	resp, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     " Eve Tran ",
		Email:    "Eve.Tran@Example.com",
		Password: "password123",
		Role:     "candidate",
	})
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if resp.Email != "eve.tran@example.com" || resp.Name != "Eve Tran" {
		t.Errorf("expected normalized fields, got %+v", resp)
	}

	stored := env.users.users[resp.ID]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")) != nil {
		t.Error("password should be stored as a bcrypt hash")
	}
	if got := env.directory.UserName(resp.ID); got != "Eve Tran" {
		t.Errorf("expected user lookup refreshed, got %q", got)
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(1, "Alice", "alice@example.com", "password123", model.RoleCandidate)
	svc := NewUserService(env.repo, env.directory, zap.NewNop())

	_, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Name: "Alice Again", Email: "alice@example.com", Password: "password123", Role: "candidate",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}
