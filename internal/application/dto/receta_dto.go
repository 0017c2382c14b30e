package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngredienteRecetaDTO insumo de una receta.
type IngredienteRecetaDTO struct {
	IngredienteID string          `json:"ingrediente_id" validate:"required"`
	Nombre        string          `json:"nombre"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	Unidad        string          `json:"unidad"`
}

// CrearRecetaRequest alta de una receta (queda en borrador).
type CrearRecetaRequest struct {
	Nombre       string                 `json:"nombre" validate:"required,min=1,max=200"`
	Descripcion  string                 `json:"descripcion" validate:"omitempty,max=1000"`
	Ingredientes []IngredienteRecetaDTO `json:"ingredientes" validate:"dive"`
	Rendimiento  decimal.Decimal        `json:"rendimiento"`
	UnidadRinde  string                 `json:"unidad_rinde" validate:"required,max=20"`
}

// FaseRequest body para iniciar/avanzar fase (notas opcionales).
type FaseRequest struct {
	Notas string `json:"notas" validate:"omitempty,max=500"`
}

// FaseHistorialDTO registro del historial de fases.
type FaseHistorialDTO struct {
	Fase   string     `json:"fase"`
	Inicio time.Time  `json:"inicio"`
	Fin    *time.Time `json:"fin,omitempty"`
	Notas  string     `json:"notas,omitempty"`
}

// RecetaResponse salida de una receta, incluyendo su stock de salida.
type RecetaResponse struct {
	ID           string                 `json:"id"`
	Nombre       string                 `json:"nombre"`
	Descripcion  string                 `json:"descripcion"`
	Ingredientes []IngredienteRecetaDTO `json:"ingredientes"`
	Rendimiento  decimal.Decimal        `json:"rendimiento"`
	UnidadRinde  string                 `json:"unidad_rinde"`
	Estado       string                 `json:"estado"`
	FaseActual   string                 `json:"fase_actual"`
	Historial    []FaseHistorialDTO     `json:"historial"`
	Producido    decimal.Decimal        `json:"producido"`
	Utilizado    decimal.Decimal        `json:"utilizado"`
	Disponible   decimal.Decimal        `json:"disponible"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
