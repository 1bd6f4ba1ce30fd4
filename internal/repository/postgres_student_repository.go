package repository

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/student-records/internal/model"
)

const studentColumns = `id, name, huid, email, academics, created_at, updated_at`

// PostgresStudentRepository stores each student as one row; the embedded
// academics live in a JSONB column so a write never spans rows.
type PostgresStudentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresStudentRepository creates a new PostgresStudentRepository.
func NewPostgresStudentRepository(pool *pgxpool.Pool) *PostgresStudentRepository {
	return &PostgresStudentRepository{pool: pool}
}

func (r *PostgresStudentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&total); err != nil {
		return 0, pgError("count students", err)
	}
	return total, nil
}

// ListAll returns every student in insertion order.
func (r *PostgresStudentRepository) ListAll(ctx context.Context) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+studentColumns+` FROM students ORDER BY seq`)
	if err != nil {
		return nil, pgError("list students", err)
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, pgError("scan student", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, pgError("list students", err)
	}
	return students, nil
}

func (r *PostgresStudentRepository) FindByID(ctx context.Context, id string) (*model.Student, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	s := &model.Student{}
	row := r.pool.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, uid)
	if err := scanStudent(row, s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, pgError("find student", err)
	}
	return s, nil
}

func (r *PostgresStudentRepository) Create(ctx context.Context, s *model.Student) error {
	if s.Academics == nil {
		s.Academics = []model.AcademicRecord{}
	}
	id := uuid.New()

	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (id, name, huid, email, academics)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		id, s.Name, s.HUID, s.Email, s.Academics,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return pgError("create student", err)
	}
	s.ID = id.String()
	return nil
}

func (r *PostgresStudentRepository) Update(ctx context.Context, s *model.Student) error {
	uid, err := uuid.Parse(s.ID)
	if err != nil {
		return ErrInvalidID
	}
	if s.Academics == nil {
		s.Academics = []model.AcademicRecord{}
	}

	err = r.pool.QueryRow(ctx,
		`UPDATE students SET name = $1, huid = $2, email = $3, academics = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5
		 RETURNING created_at, updated_at`,
		s.Name, s.HUID, s.Email, s.Academics, uid,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return pgError("update student", err)
	}
	return nil
}

func (r *PostgresStudentRepository) DeleteByID(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM students WHERE id = $1`, uid)
	if err != nil {
		return pgError("delete student", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanStudent(row pgx.Row, s *model.Student) error {
	var id uuid.UUID
	if err := row.Scan(&id, &s.Name, &s.HUID, &s.Email, &s.Academics, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return err
	}
	s.ID = id.String()
	if s.Academics == nil {
		s.Academics = []model.AcademicRecord{}
	}
	return nil
}

// pgError classifies connectivity failures as ErrStoreUnavailable and
// wraps everything else with the operation name.
func pgError(op string, err error) error {
	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) || pgconn.Timeout(err) || isContextErr(err) {
		return unavailable(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
