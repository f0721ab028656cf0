package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Не найдено
	ErrTournamentNotFound  = errors.New("torneo no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEnrollmentNotFound  = errors.New("no estás inscrito en este torneo")
	ErrTestimonialNotFound = errors.New("testimonio no encontrado")

	// Бизнес-правила инскрипций
	ErrTournamentNotActive = errors.New("no es posible inscribirse a un torneo cancelado")
	ErrAlreadyEnrolled     = errors.New("ya estás inscrito en este torneo")
	ErrNoCapacity          = errors.New("no hay cupos disponibles para este torneo")

	// Жизненный цикл турнира
	ErrInvalidState           = errors.New("estado de torneo inválido")
	ErrInvalidStateTransition = errors.New("transición de estado no permitida")
	ErrWinnerRequired         = errors.New("se requiere un ganador para finalizar el torneo")
	ErrWinnerExists           = errors.New("el torneo ya tiene un ganador asignado")
	ErrWinnerNotEnrolled      = errors.New("el ganador debe estar inscrito en el torneo")

	// Валидация и конфликты
	ErrValidationFailed         = errors.New("validación fallida")
	ErrEmailTaken               = errors.New("el correo ya está registrado")
	ErrInvalidCredentials       = errors.New("credenciales incorrectas")
	ErrTestimonialInvalidRating = errors.New("la calificación debe estar entre 1 y 5")
	ErrImageUnsupportedType     = errors.New("formato de imagen no soportado")
	ErrUploaderUnavailable      = errors.New("almacenamiento de imágenes no configurado")
)
