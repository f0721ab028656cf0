package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/chrisbel07054/AquaSport/models"
	"github.com/lib/pq"
)

func newMockEnrollmentRepo(t *testing.T) (EnrollmentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return NewPostgresEnrollmentRepository(db), mock, func() { db.Close() }
}

func TestEnrollmentCreateMapsConstraintErrors(t *testing.T) {
	cases := []struct {
		name    string
		pqErr   *pq.Error
		wantErr error
	}{
		{
			"duplicate enrollment",
			&pq.Error{Code: "23505", Constraint: "inscripciones_usuario_id_torneo_id_key"},
			ErrEnrollmentConflict,
		},
		{
			"unknown user",
			&pq.Error{Code: "23503", Constraint: "inscripciones_usuario_id_fkey"},
			ErrEnrollmentUserInvalid,
		},
		{
			"unknown tournament",
			&pq.Error{Code: "23503", Constraint: "inscripciones_torneo_id_fkey"},
			ErrEnrollmentTournamentInvalid,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, closeDB := newMockEnrollmentRepo(t)
			defer closeDB()

			mock.ExpectQuery(`INSERT INTO inscripciones`).
				WithArgs(15, 7).
				WillReturnError(tc.pqErr)

			err := repo.Create(context.Background(), nil, &models.Enrollment{UserID: 15, TournamentID: 7})
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestEnrollmentCreateReturnsGeneratedFields(t *testing.T) {
	repo, mock, closeDB := newMockEnrollmentRepo(t)
	defer closeDB()

	created := time.Now()
	mock.ExpectQuery(`INSERT INTO inscripciones`).
		WithArgs(15, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, created))

	enrollment := &models.Enrollment{UserID: 15, TournamentID: 7}
	if err := repo.Create(context.Background(), nil, enrollment); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if enrollment.ID != 42 || !enrollment.CreatedAt.Equal(created) {
		t.Errorf("generated fields not populated: %+v", enrollment)
	}
}

func TestCountByTournament(t *testing.T) {
	repo, mock, closeDB := newMockEnrollmentRepo(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM inscripciones WHERE torneo_id = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	count, err := repo.CountByTournament(context.Background(), nil, 7)
	if err != nil {
		t.Fatalf("CountByTournament: %v", err)
	}
	if count != 5 {
		t.Errorf("expected 5, got %d", count)
	}
}

func TestDeleteEnrollmentNotFound(t *testing.T) {
	repo, mock, closeDB := newMockEnrollmentRepo(t)
	defer closeDB()

	mock.ExpectExec(`DELETE FROM inscripciones WHERE usuario_id = \$1 AND torneo_id = \$2`).
		WithArgs(15, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 15, 7); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("expected ErrEnrollmentNotFound, got %v", err)
	}
}

func TestFindByUserAndTournamentNotFound(t *testing.T) {
	repo, mock, closeDB := newMockEnrollmentRepo(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT id, usuario_id, torneo_id, created_at FROM inscripciones`).
		WithArgs(15, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "usuario_id", "torneo_id", "created_at"}))

	if _, err := repo.FindByUserAndTournament(context.Background(), nil, 15, 7); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("expected ErrEnrollmentNotFound, got %v", err)
	}
}
