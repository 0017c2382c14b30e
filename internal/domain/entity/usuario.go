package entity

import "time"

// Roles válidos para Usuario.
const (
	RolUser       = "user"
	RolAdmin      = "admin"
	RolSuperAdmin = "super_admin"
)

// RolValido verifica que el rol sea uno de los conocidos.
func RolValido(rol string) bool {
	switch rol {
	case RolUser, RolAdmin, RolSuperAdmin:
		return true
	}
	return false
}

// Usuario usuario del sistema. El PasswordHash es bcrypt, nunca plano.
type Usuario struct {
	ID           string
	Email        string
	PasswordHash string
	Nombre       string
	Rol          string // user, admin, super_admin
	Estado       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
