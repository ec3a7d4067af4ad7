package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/repository"
	"github.com/Noah-Bakr/Teach-Team-sub001/internal/seed"
	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/database"
)

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	ctx := cmd.Context()

	store, rdb, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores(store, rdb, logger)

	var db *gorm.DB
	if seedWithDB {
		db, err = database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB: %w", err)
		}
		defer sqlDB.Close()
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			return err
		}
	}

	repo := repository.NewRepository(db, store)

	applicants := seed.Applicants()
	if err := repo.Snapshots.Applicants.Save(ctx, applicants); err != nil {
		return fmt.Errorf("write applicant snapshot: %w", err)
	}
	logger.Info("applicant snapshot seeded", zap.Int("count", len(applicants)))

	if !seedWithDB {
		return nil
	}
	if err := seedUsers(ctx, repo, seedPassword, logger); err != nil {
		return err
	}
	if err := seedCourses(ctx, repo, logger); err != nil {
		return err
	}
	return syncSequences(ctx, db)
}

// syncSequences moves the serial sequences past the explicitly inserted ids.
func syncSequences(ctx context.Context, db *gorm.DB) error {
	for table, column := range map[string]string{"users": "user_id", "courses": "course_id"} {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', '%[2]s'), COALESCE((SELECT MAX(%[2]s) FROM %[1]s), 0) + 1, false)",
			table, column,
		)
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("sync %s sequence: %w", table, err)
		}
	}
	return nil
}

// seedUsers inserts built-in users that are not registered yet, keeping
// their ids so applicant references resolve.
func seedUsers(ctx context.Context, repo *repository.Repository, password string, logger *zap.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	created := 0
	for _, u := range seed.Users() {
		if _, err := repo.User.GetByEmail(ctx, u.Email); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := repo.User.Create(ctx, &model.User{
			UserID:       u.ID,
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: string(hash),
			Role:         u.Role,
		}); err != nil {
			return fmt.Errorf("insert user %s: %w", u.Email, err)
		}
		created++
	}
	logger.Info("users seeded", zap.Int("created", created))
	return nil
}

func seedCourses(ctx context.Context, repo *repository.Repository, logger *zap.Logger) error {
	created := 0
	for _, c := range seed.Courses() {
		if _, err := repo.Course.GetByCode(ctx, c.Code); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := repo.Course.Create(ctx, &model.Course{CourseID: c.ID, Code: c.Code, Name: c.Name}); err != nil {
			return fmt.Errorf("insert course %s: %w", c.Code, err)
		}
		created++
	}
	logger.Info("courses seeded", zap.Int("created", created))
	return nil
}
