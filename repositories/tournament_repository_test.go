package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/chrisbel07054/AquaSport/models"
)

func newMockRepo(t *testing.T) (TournamentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return NewPostgresTournamentRepository(db), mock, func() { db.Close() }
}

func tournamentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "nombre", "deporte", "fecha", "ubicacion", "descripcion",
		"cupo", "precio", "estado", "imagen_key", "created_at",
	})
}

func TestGetByIDScansTournament(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	date := time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM torneos WHERE id = \$1`).
		WithArgs(7).
		WillReturnRows(tournamentRows().AddRow(
			7, "Copa de Natación", "natación", date, "Caracas", nil,
			10, 25.50, "activo", nil, date,
		))

	tournament, err := repo.GetByID(context.Background(), nil, 7)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if tournament.ID != 7 || tournament.Sport != models.SportSwimming || tournament.Capacity != 10 {
		t.Errorf("unexpected tournament: %+v", tournament)
	}
	if tournament.Description != nil || tournament.ImageKey != nil {
		t.Errorf("expected nil optional fields, got %+v", tournament)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT .+ FROM torneos WHERE id = \$1`).
		WithArgs(99).
		WillReturnRows(tournamentRows())

	if _, err := repo.GetByID(context.Background(), nil, 99); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("expected ErrTournamentNotFound, got %v", err)
	}
}

func TestGetByIDForUpdateLocksRow(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	date := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM torneos WHERE id = \$1 FOR UPDATE`).
		WithArgs(7).
		WillReturnRows(tournamentRows().AddRow(
			7, "Copa de Natación", "natación", date, "Caracas", nil,
			10, 25.50, "activo", nil, date,
		))
	mock.ExpectCommit()

	db, ok := repo.(*postgresTournamentRepository)
	if !ok {
		t.Fatal("unexpected repository implementation")
	}
	tx, err := db.db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	tournament, err := repo.GetByIDForUpdate(context.Background(), tx, 7)
	if err != nil {
		t.Fatalf("GetByIDForUpdate: %v", err)
	}
	if tournament.ID != 7 {
		t.Errorf("unexpected tournament: %+v", tournament)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestListWithFiltersBuildsQuery(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	sport := models.SportTriathlon
	search := "margarita"
	state := models.StateFinalized

	mock.ExpectQuery(`SELECT .+ FROM torneos WHERE 1=1 AND estado = \$1 AND deporte = \$2 AND nombre ILIKE \$3 ORDER BY fecha ASC`).
		WithArgs(state, sport, "%margarita%").
		WillReturnRows(tournamentRows())

	tournaments, err := repo.ListWithFilters(context.Background(), TournamentFilter{
		Sport:  &sport,
		State:  &state,
		Search: &search,
	})
	if err != nil {
		t.Fatalf("ListWithFilters: %v", err)
	}
	if len(tournaments) != 0 {
		t.Errorf("expected empty result, got %v", tournaments)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestListWithFiltersDefaultsToActive(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT .+ FROM torneos WHERE 1=1 AND estado = \$1 ORDER BY fecha ASC`).
		WithArgs(models.StateActive).
		WillReturnRows(tournamentRows())

	if _, err := repo.ListWithFilters(context.Background(), TournamentFilter{}); err != nil {
		t.Fatalf("ListWithFilters: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestUpdateStateNotFound(t *testing.T) {
	repo, mock, closeDB := newMockRepo(t)
	defer closeDB()

	mock.ExpectExec(`UPDATE torneos SET estado = \$1 WHERE id = \$2`).
		WithArgs(models.StateCancelled, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateState(context.Background(), nil, 99, models.StateCancelled)
	if !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("expected ErrTournamentNotFound, got %v", err)
	}
}
