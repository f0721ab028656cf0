package models

import "time"

type Testimonial struct {
	ID        int       `json:"id"`
	UserID    int       `json:"usuarioId"`
	Comment   string    `json:"comentario"`
	Rating    int       `json:"calificacion"`
	CreatedAt time.Time `json:"createdAt"`

	User *PublicUser `json:"Usuario,omitempty"`
}
