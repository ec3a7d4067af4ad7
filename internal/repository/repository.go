package repository

import (
	"gorm.io/gorm"

	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/kv"
)

// Repository aggregates every repository.
type Repository struct {
	User      UserRepository
	Course    CourseRepository
	Snapshots *Snapshots
}

// NewRepository wires the GORM repositories and the KV snapshot repositories.
func NewRepository(db *gorm.DB, store kv.Store) *Repository {
	return &Repository{
		User:      NewUserRepo(db),
		Course:    NewCourseRepo(db),
		Snapshots: NewSnapshots(store),
	}
}
