package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleVendedor = "vendedor"
	RoleAlmacen  = "almacen"
)

// User es el usuario autenticado que firma cada operación mutadora.
type User struct {
	ID           string
	Username     string
	Nombre       string
	Email        string
	PasswordHash string
	Rol          string
	Telefono     string
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
