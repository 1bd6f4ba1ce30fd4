package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/student-records/internal/validator"
)

// Level is the academic level of a program enrollment.
type Level string

const (
	LevelCertificate   Level = "Certificate"
	LevelUndergraduate Level = "Undergraduate"
	LevelGraduate      Level = "Graduate"
)

// Levels lists every accepted Level in display order.
var Levels = []Level{LevelCertificate, LevelUndergraduate, LevelGraduate}

// Status is the state of a program enrollment.
type Status string

const (
	StatusApplied    Status = "Applied"
	StatusInProgress Status = "In Progress"
	StatusAwarded    Status = "Awarded"
	StatusWithdrawn  Status = "Withdrawn"
)

// Statuses lists every accepted Status in display order.
var Statuses = []Status{StatusApplied, StatusInProgress, StatusAwarded, StatusWithdrawn}

// AcademicRecord is a program enrollment embedded in a Student. ID is set
// only by stores that key embedded records themselves.
type AcademicRecord struct {
	ID      string `json:"id,omitempty"`
	Level   Level  `json:"level" validate:"required,oneof=Certificate Undergraduate Graduate"`
	Program string `json:"program" validate:"required"`
	Status  Status `json:"status" validate:"required,oneof=Applied 'In Progress' Awarded Withdrawn"`
}

// Student is the top-level document. ID is assigned by the store.
type Student struct {
	ID        string           `json:"id"`
	Name      string           `json:"name" validate:"required"`
	HUID      string           `json:"huid" validate:"required"`
	Email     string           `json:"email" validate:"required"`
	Academics []AcademicRecord `json:"academics" validate:"dive"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Validate checks required fields and enum membership of every academic
// record. It returns a *ValidationError listing the offending fields.
func (s *Student) Validate() error {
	if fields := validator.Struct(s); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// StudentForm is the urlencoded payload of the create and update forms.
type StudentForm struct {
	Name  string `form:"name"`
	HUID  string `form:"huid"`
	Email string `form:"email"`
}

// Normalize trims surrounding whitespace from every field.
func (f *StudentForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.HUID = strings.TrimSpace(f.HUID)
	f.Email = strings.TrimSpace(f.Email)
}

// ProgramForm is the payload of POST /student/:id/program. The identity
// fields are optional here; blank values keep the stored ones.
type ProgramForm struct {
	StudentForm
	Level   string `form:"level"`
	Program string `form:"program"`
	Status  string `form:"status"`
}

// Normalize trims surrounding whitespace from every field.
func (f *ProgramForm) Normalize() {
	f.StudentForm.Normalize()
	f.Level = strings.TrimSpace(f.Level)
	f.Program = strings.TrimSpace(f.Program)
	f.Status = strings.TrimSpace(f.Status)
}

// HasProgram reports whether any academic program field was submitted.
func (f *ProgramForm) HasProgram() bool {
	return f.Level != "" || f.Program != "" || f.Status != ""
}

// Record builds the submitted academic record without coercing values;
// enum membership is checked by Student.Validate.
func (f *ProgramForm) Record() AcademicRecord {
	return AcademicRecord{
		Level:   Level(f.Level),
		Program: f.Program,
		Status:  Status(f.Status),
	}
}

// String renders the record for log lines and flash messages.
func (a AcademicRecord) String() string {
	return fmt.Sprintf("%s %s (%s)", a.Level, a.Program, a.Status)
}
