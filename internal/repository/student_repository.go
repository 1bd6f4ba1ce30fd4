package repository

import (
	"context"

	"github.com/stemsi/student-records/internal/model"
)

// StudentRepository is the document collection holding Student entities.
// Every mutating call is a single atomic write against one document.
type StudentRepository interface {
	Count(ctx context.Context) (int64, error)
	ListAll(ctx context.Context) ([]model.Student, error)
	FindByID(ctx context.Context, id string) (*model.Student, error)
	// Create assigns ID, CreatedAt and UpdatedAt on s.
	Create(ctx context.Context, s *model.Student) error
	// Update replaces the stored document with s and refreshes UpdatedAt.
	Update(ctx context.Context, s *model.Student) error
	DeleteByID(ctx context.Context, id string) error
}
