package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CrearProductoRequest alta de un producto de catálogo.
type CrearProductoRequest struct {
	Codigo      string `json:"codigo" validate:"required,min=1,max=100"`
	Nombre      string `json:"nombre" validate:"required,min=1,max=200"`
	Descripcion string `json:"descripcion" validate:"omitempty,max=1000"`
	Unidad      string `json:"unidad" validate:"required,max=20"`
}

// ActualizarProductoRequest actualización parcial (el stock se maneja vía movimientos).
type ActualizarProductoRequest struct {
	Nombre      *string `json:"nombre" validate:"omitempty,min=1,max=200"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=1000"`
	Unidad      *string `json:"unidad" validate:"omitempty,max=20"`
}

// ProductoResponse salida de un producto con su stock espejado.
type ProductoResponse struct {
	ID          string          `json:"id"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Unidad      string          `json:"unidad"`
	Stock       decimal.Decimal `json:"stock"`
	Activo      bool            `json:"activo"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
