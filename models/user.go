package models

import "time"

// UserRole соответствует ENUM rol в БД.
type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleParticipant UserRole = "participante"
)

type Gender string

const (
	GenderMale   Gender = "masculino"
	GenderFemale Gender = "femenino"
)

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"nombre"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Gender       Gender    `json:"genero"`
	Age          int       `json:"edad"`
	Role         UserRole  `json:"rol"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser — публичная проекция пользователя для вложенных ответов.
// Хеш пароля сюда не попадает по построению, а не вычёркиванием полей.
type PublicUser struct {
	ID     int    `json:"id"`
	Name   string `json:"nombre"`
	Email  string `json:"email,omitempty"`
	Gender Gender `json:"genero,omitempty"`
	Age    int    `json:"edad,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Gender: u.Gender,
		Age:    u.Age,
	}
}
