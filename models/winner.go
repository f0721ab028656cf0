package models

import "time"

type Winner struct {
	ID           int       `json:"id"`
	UserID       int       `json:"usuarioId"`
	TournamentID int       `json:"torneoId"`
	CreatedAt    time.Time `json:"createdAt"`

	User       *PublicUser `json:"Usuario,omitempty"`
	Tournament *Tournament `json:"Torneo,omitempty"`
}
