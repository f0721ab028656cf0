package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/chrisbel07054/AquaSport/live"
	"github.com/chrisbel07054/AquaSport/models"
	"github.com/chrisbel07054/AquaSport/repositories"
	"github.com/chrisbel07054/AquaSport/storage"
	"github.com/google/uuid"
)

type CreateTournamentInput struct {
	Name        string          `json:"nombre"`
	Sport       models.Sport    `json:"deporte"`
	Date        time.Time       `json:"fecha"`
	Location    string          `json:"ubicacion"`
	Description *string         `json:"descripcion"`
	Capacity    int             `json:"cupo"`
	Price       float64         `json:"precio"`
}

type UpdateTournamentInput struct {
	CreateTournamentInput
	State models.TournamentState `json:"estado"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.TournamentDetail, error)
	ListActive(ctx context.Context) ([]models.Tournament, error)
	ListWithFilters(ctx context.Context, filter repositories.TournamentFilter) ([]models.Tournament, error)
	ListFinalized(ctx context.Context) ([]models.FinalizedTournament, error)
	ListAllWithCounts(ctx context.Context) ([]models.TournamentWithCount, error)
	Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	// ChangeState переводит турнир по машине состояний; для
	// finalizado требуется winnerUserID и создаётся запись ganador
	// в той же транзакции.
	ChangeState(ctx context.Context, id int, newState models.TournamentState, winnerUserID *int) (*models.Tournament, error)
	UploadImage(ctx context.Context, id int, contentType string, r io.Reader) (*models.Tournament, error)
}

type tournamentService struct {
	db          *sql.DB
	tournaments repositories.TournamentRepository
	enrollments repositories.EnrollmentRepository
	winners     repositories.WinnerRepository
	uploader    storage.FileUploader
	hub         *live.Hub
	logger      *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournaments repositories.TournamentRepository,
	enrollments repositories.EnrollmentRepository,
	winners repositories.WinnerRepository,
	uploader storage.FileUploader,
	hub *live.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:          db,
		tournaments: tournaments,
		enrollments: enrollments,
		winners:     winners,
		uploader:    uploader,
		hub:         hub,
		logger:      logger,
	}
}

func validateTournamentInput(input CreateTournamentInput) error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return fmt.Errorf("%w: nombre es requerido", ErrValidationFailed)
	case !input.Sport.Valid():
		return fmt.Errorf("%w: deporte inválido", ErrValidationFailed)
	case input.Date.IsZero():
		return fmt.Errorf("%w: fecha es requerida", ErrValidationFailed)
	case strings.TrimSpace(input.Location) == "":
		return fmt.Errorf("%w: ubicación es requerida", ErrValidationFailed)
	case input.Capacity < 1:
		return fmt.Errorf("%w: el cupo debe ser al menos 1", ErrValidationFailed)
	case input.Price < 0:
		return fmt.Errorf("%w: el precio no puede ser negativo", ErrValidationFailed)
	}
	return nil
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:        input.Name,
		Sport:       input.Sport,
		Date:        input.Date,
		Location:    input.Location,
		Description: input.Description,
		Capacity:    input.Capacity,
		Price:       input.Price,
		State:       models.StateActive,
	}
	if err := s.tournaments.Create(ctx, tournament); err != nil {
		return nil, err
	}

	s.logger.Info("tournament created",
		slog.Int("id", tournament.ID),
		slog.String("deporte", string(tournament.Sport)))
	return s.withImageURL(tournament), nil
}

// occupancy пересчитывает производные поля на каждом чтении;
// в БД они не хранятся.
func occupancy(capacity, enrolled int) (availableSlots int, percent float64) {
	availableSlots = capacity - enrolled
	percent = math.Round(float64(enrolled)/float64(capacity)*100*100) / 100
	return availableSlots, percent
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.TournamentDetail, error) {
	tournament, err := s.tournaments.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	enrollments, err := s.enrollments.ListByTournament(ctx, id)
	if err != nil {
		return nil, err
	}

	available, percent := occupancy(tournament.Capacity, len(enrollments))
	return &models.TournamentDetail{
		Tournament:       *s.withImageURL(tournament),
		Enrollments:      enrollments,
		EnrollmentCount:  len(enrollments),
		AvailableSlots:   available,
		OccupancyPercent: percent,
	}, nil
}

func (s *tournamentService) ListActive(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournaments.ListActive(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return s.withImageURLs(tournaments), nil
}

func (s *tournamentService) ListWithFilters(ctx context.Context, filter repositories.TournamentFilter) ([]models.Tournament, error) {
	if filter.Sport != nil && !filter.Sport.Valid() {
		return nil, fmt.Errorf("%w: deporte inválido", ErrValidationFailed)
	}
	if filter.State != nil && !filter.State.Valid() {
		return nil, ErrInvalidState
	}
	tournaments, err := s.tournaments.ListWithFilters(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.withImageURLs(tournaments), nil
}

func (s *tournamentService) ListFinalized(ctx context.Context) ([]models.FinalizedTournament, error) {
	finalized, err := s.tournaments.ListFinalized(ctx)
	if err != nil {
		return nil, err
	}
	for i := range finalized {
		s.withImageURL(&finalized[i].Tournament)
	}
	return finalized, nil
}

func (s *tournamentService) ListAllWithCounts(ctx context.Context) ([]models.TournamentWithCount, error) {
	tournaments, err := s.tournaments.ListAllWithCounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tournaments {
		s.withImageURL(&tournaments[i].Tournament)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input.CreateTournamentInput); err != nil {
		return nil, err
	}
	if !input.State.Valid() {
		return nil, ErrInvalidState
	}

	// Смена состояния через полное обновление подчиняется той же
	// машине состояний, что и ChangeState; финализация здесь
	// недоступна, потому что требует победителя.
	current, err := s.tournaments.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if input.State != current.State {
		if !validTransition(current.State, input.State) {
			return nil, ErrInvalidStateTransition
		}
		if input.State == models.StateFinalized {
			return nil, ErrWinnerRequired
		}
	}

	tournament := &models.Tournament{
		ID:          id,
		Name:        input.Name,
		Sport:       input.Sport,
		Date:        input.Date,
		Location:    input.Location,
		Description: input.Description,
		Capacity:    input.Capacity,
		Price:       input.Price,
		State:       input.State,
		ImageKey:    current.ImageKey,
	}
	if err := s.tournaments.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.withImageURL(tournament), nil
}

func validTransition(from, to models.TournamentState) bool {
	switch from {
	case models.StateActive:
		return to == models.StateCancelled || to == models.StateFinalized
	case models.StateCancelled:
		return to == models.StateActive
	}
	// finalizado — терминальное состояние.
	return false
}

func (s *tournamentService) ChangeState(ctx context.Context, id int, newState models.TournamentState, winnerUserID *int) (*models.Tournament, error) {
	if !newState.Valid() {
		return nil, ErrInvalidState
	}

	tournament, err := s.tournaments.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	if tournament.State == newState {
		return s.withImageURL(tournament), nil
	}
	if !validTransition(tournament.State, newState) {
		return nil, ErrInvalidStateTransition
	}

	if newState == models.StateFinalized {
		if err := s.finalize(ctx, tournament, winnerUserID); err != nil {
			return nil, err
		}
	} else {
		if err := s.tournaments.UpdateState(ctx, nil, id, newState); err != nil {
			return nil, err
		}
	}
	tournament.State = newState

	s.logger.Info("tournament state changed",
		slog.Int("id", id),
		slog.String("estado", string(newState)))

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.TournamentRoom(id), live.Event{
			Type: live.EventStateChanged,
			Payload: map[string]interface{}{
				"torneoId": id,
				"estado":   newState,
			},
		})
	}
	return s.withImageURL(tournament), nil
}

// finalize создаёт запись победителя и переводит турнир в finalizado
// одной транзакцией: либо оба эффекта, либо ни одного.
func (s *tournamentService) finalize(ctx context.Context, tournament *models.Tournament, winnerUserID *int) error {
	if winnerUserID == nil {
		return ErrWinnerRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin finalize transaction: %w", err)
	}
	defer tx.Rollback()

	// Победитель должен быть из числа инскритых.
	_, err = s.enrollments.FindByUserAndTournament(ctx, tx, *winnerUserID, tournament.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrEnrollmentNotFound) {
			return ErrWinnerNotEnrolled
		}
		return err
	}

	winner := &models.Winner{
		UserID:       *winnerUserID,
		TournamentID: tournament.ID,
	}
	if err := s.winners.Create(ctx, tx, winner); err != nil {
		switch {
		case errors.Is(err, repositories.ErrWinnerExists):
			return ErrWinnerExists
		case errors.Is(err, repositories.ErrWinnerUserInvalid):
			return ErrUserNotFound
		}
		return err
	}

	if err := s.tournaments.UpdateState(ctx, tx, tournament.ID, models.StateFinalized); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit finalize: %w", err)
	}
	return nil
}

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

func (s *tournamentService) UploadImage(ctx context.Context, id int, contentType string, r io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrUploaderUnavailable
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, ErrImageUnsupportedType
	}

	tournament, err := s.tournaments.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	key := fmt.Sprintf("torneos/%d/%s.%s", id, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, r); err != nil {
		return nil, err
	}

	oldKey := tournament.ImageKey
	if err := s.tournaments.UpdateImageKey(ctx, id, &key); err != nil {
		// Откат загрузки best effort, чтобы не копить сироты в бакете.
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.Error("failed to delete orphan image", slog.Any("error", delErr))
		}
		return nil, err
	}
	if oldKey != nil {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Error("failed to delete replaced image", slog.Any("error", delErr))
		}
	}

	tournament.ImageKey = &key
	return s.withImageURL(tournament), nil
}

func (s *tournamentService) withImageURL(t *models.Tournament) *models.Tournament {
	if s.uploader != nil && t.ImageKey != nil {
		url := s.uploader.GetPublicURL(*t.ImageKey)
		t.ImageURL = &url
	}
	return t
}

func (s *tournamentService) withImageURLs(tournaments []models.Tournament) []models.Tournament {
	for i := range tournaments {
		s.withImageURL(&tournaments[i])
	}
	return tournaments
}
