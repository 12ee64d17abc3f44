package entity

import "time"

// Category agrupa productos del catálogo.
type Category struct {
	ID          string
	Nombre      string // único
	Descripcion string
	Activo      bool
	CreatedAt   time.Time
}
