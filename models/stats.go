package models

// SportCount — количество турниров по виду спорта.
type SportCount struct {
	Sport Sport `json:"deporte"`
	Total int   `json:"total"`
}

// GenderCount — количество инскрипций по полу участника.
type GenderCount struct {
	Gender Gender `json:"genero"`
	Total  int    `json:"total"`
}

type PlatformStats struct {
	TotalUsers           int           `json:"totalUsuarios"`
	TotalTournaments     int           `json:"totalTorneos"`
	TotalEnrollments     int           `json:"totalInscripciones"`
	TournamentsBySport   []SportCount  `json:"torneosPorDeporte"`
	EnrollmentsByGender  []GenderCount `json:"inscripcionesPorGenero"`
	UpcomingTournaments  int           `json:"torneosProximos"`
	PastTournaments      int           `json:"torneosPasados"`
	AverageTestimonyMark float64       `json:"calificacionPromedio"`
}
