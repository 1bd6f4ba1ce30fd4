package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/model"
	"github.com/stemsi/student-records/internal/repository"
)

// StudentService owns the student record lifecycle. Every mutation is
// validated at the entity boundary before it reaches the store.
type StudentService struct {
	studentRepo repository.StudentRepository
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo repository.StudentRepository, log zerolog.Logger) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

// Count returns the total number of students.
func (s *StudentService) Count(ctx context.Context) (int64, error) {
	return s.studentRepo.Count(ctx)
}

// ListAll returns every student in insertion order.
func (s *StudentService) ListAll(ctx context.Context) ([]model.Student, error) {
	return s.studentRepo.ListAll(ctx)
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id string) (*model.Student, error) {
	return s.studentRepo.FindByID(ctx, id)
}

// Create validates the submitted form and persists a new student. Programs
// with any field filled become its initial academic records; the student
// and its records are validated together and written in one insert.
func (s *StudentService) Create(ctx context.Context, form model.StudentForm, programs ...model.ProgramForm) (*model.Student, error) {
	form.Normalize()

	student := &model.Student{
		Name:      form.Name,
		HUID:      form.HUID,
		Email:     form.Email,
		Academics: []model.AcademicRecord{},
	}
	for _, p := range programs {
		p.Normalize()
		if p.HasProgram() {
			student.Academics = append(student.Academics, p.Record())
		}
	}
	if err := student.Validate(); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.log.Info().
		Str("student_id", student.ID).
		Int("programs", len(student.Academics)).
		Msg("Student created")
	return student, nil
}

// Update overwrites name, huid and email of an existing student.
func (s *StudentService) Update(ctx context.Context, id string, form model.StudentForm) (*model.Student, error) {
	form.Normalize()

	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	student.Name = form.Name
	student.HUID = form.HUID
	student.Email = form.Email
	if err := student.Validate(); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}

	s.log.Info().Str("student_id", student.ID).Msg("Student updated")
	return student, nil
}

// AddProgram overwrites any non-blank identity fields and, when program
// fields were submitted, appends a new academic record. Level and status
// must belong to their enumerations or the whole write is rejected.
func (s *StudentService) AddProgram(ctx context.Context, id string, form model.ProgramForm) (*model.Student, error) {
	form.Normalize()

	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if form.Name != "" {
		student.Name = form.Name
	}
	if form.HUID != "" {
		student.HUID = form.HUID
	}
	if form.Email != "" {
		student.Email = form.Email
	}
	if form.HasProgram() {
		student.Academics = append(student.Academics, form.Record())
	}
	if err := student.Validate(); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("update student programs: %w", err)
	}

	s.log.Info().
		Str("student_id", student.ID).
		Int("programs", len(student.Academics)).
		Msg("Student programs updated")
	return student, nil
}

// Delete removes a student by ID.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.studentRepo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("student_id", id).Msg("Student deleted")
	return nil
}
