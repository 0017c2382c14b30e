package entity

import "time"

// Producto entrada del catálogo de productos terminados. El stock NO vive aquí:
// se maneja en ItemStock (tipo producto) y se refleja en RegistroInventario;
// el catálogo solo aporta código, nombre y unidad.
type Producto struct {
	ID          string
	Codigo      string // código único de catálogo
	Nombre      string
	Descripcion string
	Unidad      string
	Activo      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
