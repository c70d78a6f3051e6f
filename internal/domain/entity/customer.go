package entity

import "time"

// Customer representa un cliente de un usuario.
type Customer struct {
	ID        string
	UserID    string // dueño; obligatorio tras el alta
	FirstName string
	LastName  string
	Email     string
	Company   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
