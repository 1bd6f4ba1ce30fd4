package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/student-records/internal/model"
)

// MemoryStudentRepository keeps students in a process-local map.
// Used for local development and tests.
type MemoryStudentRepository struct {
	mu       sync.RWMutex
	students map[string]entry
	seq      uint64
	now      func() time.Time
}

type entry struct {
	student model.Student
	seq     uint64
}

// NewMemoryStudentRepository creates an empty MemoryStudentRepository.
func NewMemoryStudentRepository() *MemoryStudentRepository {
	return &MemoryStudentRepository{
		students: make(map[string]entry),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryStudentRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.students)), nil
}

// ListAll returns students in creation order.
func (r *MemoryStudentRepository) ListAll(ctx context.Context) ([]model.Student, error) {
	r.mu.RLock()
	entries := make([]entry, 0, len(r.students))
	for _, e := range r.students {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	students := make([]model.Student, 0, len(entries))
	for _, e := range entries {
		students = append(students, clone(e.student))
	}
	return students, nil
}

func (r *MemoryStudentRepository) FindByID(ctx context.Context, id string) (*model.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clone(e.student)
	return &out, nil
}

func (r *MemoryStudentRepository) Create(ctx context.Context, s *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.Academics == nil {
		s.Academics = []model.AcademicRecord{}
	}
	r.seq++
	r.students[s.ID] = entry{student: clone(*s), seq: r.seq}
	return nil
}

func (r *MemoryStudentRepository) Update(ctx context.Context, s *model.Student) error {
	if _, err := uuid.Parse(s.ID); err != nil {
		return ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.students[s.ID]
	if !ok {
		return ErrNotFound
	}
	s.CreatedAt = existing.student.CreatedAt
	s.UpdatedAt = r.now()
	r.students[s.ID] = entry{student: clone(*s), seq: existing.seq}
	return nil
}

func (r *MemoryStudentRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[id]; !ok {
		return ErrNotFound
	}
	delete(r.students, id)
	return nil
}

// clone copies the academics slice so callers never share backing arrays
// with the stored document.
func clone(s model.Student) model.Student {
	academics := make([]model.AcademicRecord, len(s.Academics))
	copy(academics, s.Academics)
	s.Academics = academics
	return s
}
