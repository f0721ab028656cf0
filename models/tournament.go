package models

import "time"

// TournamentState представляет статусы турнира, соответствующие ENUM в БД.
type TournamentState string

const (
	StateActive    TournamentState = "activo"
	StateCancelled TournamentState = "cancelado"
	StateFinalized TournamentState = "finalizado"
)

func (s TournamentState) Valid() bool {
	switch s {
	case StateActive, StateCancelled, StateFinalized:
		return true
	}
	return false
}

// Sport соответствует ENUM deporte в БД.
type Sport string

const (
	SportSwimming  Sport = "natación"
	SportOpenWater Sport = "aguas abiertas"
	SportTriathlon Sport = "triatlón"
	SportAquathlon Sport = "acuatlón"
	SportAthletics Sport = "atletismo"
)

func (s Sport) Valid() bool {
	switch s {
	case SportSwimming, SportOpenWater, SportTriathlon, SportAquathlon, SportAthletics:
		return true
	}
	return false
}

type Tournament struct {
	ID          int             `json:"id"`
	Name        string          `json:"nombre"`
	Sport       Sport           `json:"deporte"`
	Date        time.Time       `json:"fecha"`
	Location    string          `json:"ubicacion"`
	Description *string         `json:"descripcion,omitempty"`
	Capacity    int             `json:"cupo"`
	Price       float64         `json:"precio"`
	State       TournamentState `json:"estado"`
	CreatedAt   time.Time       `json:"createdAt"`
	ImageKey    *string         `json:"-"`
	ImageURL    *string         `json:"imagenUrl,omitempty"`
}

// TournamentDetail — турнир с вложенными инскрипциями и производными
// полями занятости. Производные поля считаются на каждом чтении.
type TournamentDetail struct {
	Tournament
	Enrollments      []Enrollment `json:"inscripcionesDetalle"`
	EnrollmentCount  int          `json:"inscripciones"`
	AvailableSlots   int          `json:"cuposDisponibles"`
	OccupancyPercent float64      `json:"porcentajeOcupacion"`
}

// TournamentWithCount — элемент админского списка с живым числом инскрипций.
type TournamentWithCount struct {
	Tournament
	EnrollmentCount int `json:"inscritos"`
}

// FinalizedTournament — завершённый турнир вместе с его победителем.
type FinalizedTournament struct {
	Tournament Tournament `json:"Torneo"`
	Winner     PublicUser `json:"Usuario"`
}
