package models

import "time"

type Enrollment struct {
	ID           int       `json:"id"`
	UserID       int       `json:"usuarioId"`
	TournamentID int       `json:"torneoId"`
	CreatedAt    time.Time `json:"createdAt"`

	// Опциональные связанные сущности (не мапятся напрямую)
	User       *PublicUser `json:"Usuario,omitempty"`
	Tournament *Tournament `json:"Torneo,omitempty"`
}
