package services

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/chrisbel07054/AquaSport/models"
	"github.com/chrisbel07054/AquaSport/repositories"
)

type winnerRepoStub struct {
	repositories.WinnerRepository
	create func(ctx context.Context, exec repositories.SQLExecutor, w *models.Winner) error
}

func (s *winnerRepoStub) Create(ctx context.Context, exec repositories.SQLExecutor, w *models.Winner) error {
	return s.create(ctx, exec, w)
}

func validInput() CreateTournamentInput {
	return CreateTournamentInput{
		Name:     "Triatlón de Margarita",
		Sport:    models.SportTriathlon,
		Date:     time.Date(2026, 10, 12, 8, 0, 0, 0, time.UTC),
		Location: "Isla de Margarita",
		Capacity: 50,
		Price:    25.50,
	}
}

func TestValidateTournamentInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateTournamentInput)
	}{
		{"empty name", func(in *CreateTournamentInput) { in.Name = "  " }},
		{"unknown sport", func(in *CreateTournamentInput) { in.Sport = "ajedrez" }},
		{"zero date", func(in *CreateTournamentInput) { in.Date = time.Time{} }},
		{"empty location", func(in *CreateTournamentInput) { in.Location = "" }},
		{"zero capacity", func(in *CreateTournamentInput) { in.Capacity = 0 }},
		{"negative price", func(in *CreateTournamentInput) { in.Price = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			if err := validateTournamentInput(input); !errors.Is(err, ErrValidationFailed) {
				t.Errorf("expected ErrValidationFailed, got %v", err)
			}
		})
	}

	if err := validateTournamentInput(validInput()); err != nil {
		t.Errorf("valid input rejected: %v", err)
	}
}

func TestOccupancy(t *testing.T) {
	cases := []struct {
		capacity, enrolled int
		wantSlots          int
		wantPercent        float64
	}{
		{10, 0, 10, 0},
		{10, 3, 7, 30},
		{10, 10, 0, 100},
		{3, 1, 2, 33.33},
		{3, 2, 1, 66.67},
		{7, 5, 2, 71.43},
	}
	for _, tc := range cases {
		slots, percent := occupancy(tc.capacity, tc.enrolled)
		if slots != tc.wantSlots || percent != tc.wantPercent {
			t.Errorf("occupancy(%d, %d) = (%d, %v), want (%d, %v)",
				tc.capacity, tc.enrolled, slots, percent, tc.wantSlots, tc.wantPercent)
		}
	}
}

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from, to models.TournamentState
		want     bool
	}{
		{models.StateActive, models.StateCancelled, true},
		{models.StateActive, models.StateFinalized, true},
		{models.StateCancelled, models.StateActive, true},
		{models.StateCancelled, models.StateFinalized, false},
		{models.StateFinalized, models.StateActive, false},
		{models.StateFinalized, models.StateCancelled, false},
	}
	for _, tc := range cases {
		if got := validTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("validTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestChangeStateCancelAndReactivate(t *testing.T) {
	stored := activeTournament(7, 10)
	tournaments := &tournamentRepoStub{
		getByID: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
			snapshot := *stored
			return &snapshot, nil
		},
		updateState: func(ctx context.Context, exec repositories.SQLExecutor, id int, state models.TournamentState) error {
			stored.State = state
			return nil
		},
	}

	svc := NewTournamentService(nil, tournaments, &enrollmentRepoStub{}, &winnerRepoStub{}, nil, nil, testLogger())

	cancelled, err := svc.ChangeState(context.Background(), 7, models.StateCancelled, nil)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.State != models.StateCancelled || stored.State != models.StateCancelled {
		t.Fatalf("expected cancelado, got %s", cancelled.State)
	}

	reactivated, err := svc.ChangeState(context.Background(), 7, models.StateActive, nil)
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if reactivated.State != models.StateActive {
		t.Fatalf("expected activo, got %s", reactivated.State)
	}
}

func TestChangeStateSameStateIsNoOp(t *testing.T) {
	tournaments := &tournamentRepoStub{
		getByID: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
			return activeTournament(id, 10), nil
		},
		updateState: func(ctx context.Context, exec repositories.SQLExecutor, id int, state models.TournamentState) error {
			t.Error("UpdateState should not be called for a same-state change")
			return nil
		},
	}

	svc := NewTournamentService(nil, tournaments, &enrollmentRepoStub{}, &winnerRepoStub{}, nil, nil, testLogger())

	tournament, err := svc.ChangeState(context.Background(), 7, models.StateActive, nil)
	if err != nil {
		t.Fatalf("ChangeState: %v", err)
	}
	if tournament.State != models.StateActive {
		t.Errorf("unexpected state %s", tournament.State)
	}
}

func TestChangeStateRejectsInvalidTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    models.TournamentState
		to      models.TournamentState
		wantErr error
	}{
		{"finalizado is terminal", models.StateFinalized, models.StateActive, ErrInvalidStateTransition},
		{"cancelado cannot finalize", models.StateCancelled, models.StateFinalized, ErrInvalidStateTransition},
		{"unknown state", models.StateActive, "archivado", ErrInvalidState},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tournaments := &tournamentRepoStub{
				getByID: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
					tournament := activeTournament(id, 10)
					tournament.State = tc.from
					return tournament, nil
				},
			}

			svc := NewTournamentService(nil, tournaments, &enrollmentRepoStub{}, &winnerRepoStub{}, nil, nil, testLogger())

			if _, err := svc.ChangeState(context.Background(), 7, tc.to, nil); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUpdateEnforcesStateMachine(t *testing.T) {
	cases := []struct {
		name    string
		stored  models.TournamentState
		next    models.TournamentState
		wantErr error
	}{
		{"finalizado cannot be reopened", models.StateFinalized, models.StateActive, ErrInvalidStateTransition},
		{"finalizado cannot be cancelled", models.StateFinalized, models.StateCancelled, ErrInvalidStateTransition},
		{"cancelado cannot finalize", models.StateCancelled, models.StateFinalized, ErrInvalidStateTransition},
		{"finalization needs a winner", models.StateActive, models.StateFinalized, ErrWinnerRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tournaments := &tournamentRepoStub{
				getByID: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
					tournament := activeTournament(id, 10)
					tournament.State = tc.stored
					return tournament, nil
				},
				update: func(ctx context.Context, tournament *models.Tournament) error {
					t.Errorf("Update should not write state %s over %s", tournament.State, tc.stored)
					return nil
				},
			}

			svc := NewTournamentService(nil, tournaments, &enrollmentRepoStub{}, &winnerRepoStub{}, nil, nil, testLogger())

			input := UpdateTournamentInput{CreateTournamentInput: validInput(), State: tc.next}
			if _, err := svc.Update(context.Background(), 7, input); !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUpdateAllowsValidStateChange(t *testing.T) {
	cases := []struct {
		name   string
		stored models.TournamentState
		next   models.TournamentState
	}{
		{"same state", models.StateActive, models.StateActive},
		{"activo to cancelado", models.StateActive, models.StateCancelled},
		{"cancelado back to activo", models.StateCancelled, models.StateActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var written *models.Tournament
			tournaments := &tournamentRepoStub{
				getByID: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
					tournament := activeTournament(id, 10)
					tournament.State = tc.stored
					return tournament, nil
				},
				update: func(ctx context.Context, tournament *models.Tournament) error {
					written = tournament
					return nil
				},
			}

			svc := NewTournamentService(nil, tournaments, &enrollmentRepoStub{}, &winnerRepoStub{}, nil, nil, testLogger())

			input := UpdateTournamentInput{CreateTournamentInput: validInput(), State: tc.next}
			tournament, err := svc.Update(context.Background(), 7, input)
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if written == nil || written.State != tc.next || tournament.State != tc.next {
				t.Errorf("expected state %s to be written, got %+v", tc.next, written)
			}
		})
	}
}

func TestFinalizeRequiresWinner(t *testing.T) {
	tournaments := &tournamentRepoStub{
		getByID: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
			return activeTournament(id, 10), nil
		},
	}

	svc := NewTournamentService(nil, tournaments, &enrollmentRepoStub{}, &winnerRepoStub{}, nil, nil, testLogger())

	if _, err := svc.ChangeState(context.Background(), 7, models.StateFinalized, nil); !errors.Is(err, ErrWinnerRequired) {
		t.Errorf("expected ErrWinnerRequired, got %v", err)
	}
}

func TestFinalizeCreatesWinnerAndUpdatesState(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	var createdWinner *models.Winner
	var finalState models.TournamentState

	tournaments := &tournamentRepoStub{
		getByID: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
			return activeTournament(id, 10), nil
		},
		updateState: func(ctx context.Context, exec repositories.SQLExecutor, id int, state models.TournamentState) error {
			if exec == nil {
				t.Error("expected state update to run inside the finalize transaction")
			}
			finalState = state
			return nil
		},
	}
	enrollments := &enrollmentRepoStub{
		findByUserAndTour: func(ctx context.Context, exec repositories.SQLExecutor, userID, tournamentID int) (*models.Enrollment, error) {
			return &models.Enrollment{ID: 1, UserID: userID, TournamentID: tournamentID}, nil
		},
	}
	winners := &winnerRepoStub{
		create: func(ctx context.Context, exec repositories.SQLExecutor, w *models.Winner) error {
			createdWinner = w
			return nil
		},
	}

	svc := NewTournamentService(db, tournaments, enrollments, winners, nil, nil, testLogger())

	winnerID := 15
	tournament, err := svc.ChangeState(context.Background(), 7, models.StateFinalized, &winnerID)
	if err != nil {
		t.Fatalf("ChangeState: %v", err)
	}
	if tournament.State != models.StateFinalized || finalState != models.StateFinalized {
		t.Errorf("expected finalizado, got %s", tournament.State)
	}
	if createdWinner == nil || createdWinner.UserID != 15 || createdWinner.TournamentID != 7 {
		t.Errorf("unexpected winner record: %+v", createdWinner)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestFinalizeRejectsWinnerNotEnrolled(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	tournaments := &tournamentRepoStub{
		getByID: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
			return activeTournament(id, 10), nil
		},
	}
	enrollments := &enrollmentRepoStub{
		findByUserAndTour: notEnrolled,
	}

	svc := NewTournamentService(db, tournaments, enrollments, &winnerRepoStub{}, nil, nil, testLogger())

	winnerID := 15
	if _, err := svc.ChangeState(context.Background(), 7, models.StateFinalized, &winnerID); !errors.Is(err, ErrWinnerNotEnrolled) {
		t.Errorf("expected ErrWinnerNotEnrolled, got %v", err)
	}
}

func TestFinalizeRejectsDuplicateWinner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	tournaments := &tournamentRepoStub{
		getByID: func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
			return activeTournament(id, 10), nil
		},
	}
	enrollments := &enrollmentRepoStub{
		findByUserAndTour: func(ctx context.Context, exec repositories.SQLExecutor, userID, tournamentID int) (*models.Enrollment, error) {
			return &models.Enrollment{ID: 1, UserID: userID, TournamentID: tournamentID}, nil
		},
	}
	winners := &winnerRepoStub{
		create: func(ctx context.Context, exec repositories.SQLExecutor, w *models.Winner) error {
			return repositories.ErrWinnerExists
		},
	}

	svc := NewTournamentService(db, tournaments, enrollments, winners, nil, nil, testLogger())

	winnerID := 15
	if _, err := svc.ChangeState(context.Background(), 7, models.StateFinalized, &winnerID); !errors.Is(err, ErrWinnerExists) {
		t.Errorf("expected ErrWinnerExists, got %v", err)
	}
}

func TestUploadImageWithoutUploader(t *testing.T) {
	svc := NewTournamentService(nil, &tournamentRepoStub{}, &enrollmentRepoStub{}, &winnerRepoStub{}, nil, nil, testLogger())

	if _, err := svc.UploadImage(context.Background(), 7, "image/png", nil); !errors.Is(err, ErrUploaderUnavailable) {
		t.Errorf("expected ErrUploaderUnavailable, got %v", err)
	}
}
