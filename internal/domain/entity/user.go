package entity

import "time"

// Roles válidos para User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User representa un usuario del sistema; es dueño de sus clientes.
type User struct {
	ID           string
	Email        string
	Password     string // texto plano, solo entre la deserialización y el hook de alta; nunca se persiste
	PasswordHash string // bcrypt
	FirstName    string
	LastName     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
