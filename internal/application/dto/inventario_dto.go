package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CrearItemRequest alta de un ingrediente o material.
type CrearItemRequest struct {
	Tipo   string `json:"tipo" validate:"required,oneof=ingrediente material"`
	Nombre string `json:"nombre" validate:"required,min=1,max=200"`
	Unidad string `json:"unidad" validate:"required,min=1,max=20"`
}

// EntradaStockRequest crédito manual de stock (compra, ajuste positivo).
type EntradaStockRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Cantidad decimal.Decimal `json:"cantidad"`
	Subtipo  string          `json:"subtipo" validate:"omitempty,oneof=manual ajuste"`
	Motivo   string          `json:"motivo" validate:"omitempty,max=500"`
}

// SalidaStockRequest débito manual de stock (ajuste negativo, consumo suelto).
type SalidaStockRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Cantidad decimal.Decimal `json:"cantidad"`
	Subtipo  string          `json:"subtipo" validate:"omitempty,oneof=manual ajuste"`
	Motivo   string          `json:"motivo" validate:"omitempty,max=500"`
}

// MermaRequest registro de desperdicio: un débito con subtipo merma.
type MermaRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Cantidad decimal.Decimal `json:"cantidad"`
	Motivo   string          `json:"motivo" validate:"required,max=500"`
}

// InsumoRequest un insumo de producción.
type InsumoRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Cantidad decimal.Decimal `json:"cantidad"`
}

// ProduccionRequest body para POST /api/producciones. Para salida_tipo receta,
// cantidad son lotes (se multiplica por el rendimiento); para producto,
// cantidad se acredita directo y nombre/unidad alimentan el alta perezosa.
type ProduccionRequest struct {
	SalidaTipo    string          `json:"salida_tipo" validate:"required,oneof=receta producto"`
	SalidaID      string          `json:"salida_id" validate:"required"`
	SalidaNombre  string          `json:"salida_nombre" validate:"omitempty,max=200"`
	SalidaUnidad  string          `json:"salida_unidad" validate:"omitempty,max=20"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	Insumos       []InsumoRequest `json:"insumos" validate:"dive"`
	Motivo        string          `json:"motivo" validate:"omitempty,max=500"`
	CorrelacionID string          `json:"correlacion_id" validate:"omitempty,uuid"`
}

// ItemStockResponse salida de un item de stock.
type ItemStockResponse struct {
	ID         string          `json:"id"`
	Tipo       string          `json:"tipo"`
	Nombre     string          `json:"nombre"`
	Unidad     string          `json:"unidad"`
	Adquirido  decimal.Decimal `json:"adquirido"`
	Consumido  decimal.Decimal `json:"consumido"`
	Disponible decimal.Decimal `json:"disponible"`
	Activo     bool            `json:"activo"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// MovimientoResponse salida de un asiento del libro.
type MovimientoResponse struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	ItemTipo        string          `json:"item_tipo"`
	Direccion       string          `json:"direccion"`
	Subtipo         string          `json:"subtipo"`
	Cantidad        decimal.Decimal `json:"cantidad"`
	CantidadAntes   decimal.Decimal `json:"cantidad_antes"`
	CantidadDespues decimal.Decimal `json:"cantidad_despues"`
	Motivo          string          `json:"motivo"`
	Operador        string          `json:"operador"`
	CorrelacionID   *string         `json:"correlacion_id,omitempty"`
	RevertidoPor    *string         `json:"revertido_por,omitempty"`
	Detalles        json.RawMessage `json:"detalles,omitempty"`
	Fecha           time.Time       `json:"fecha"`
}

// MovimientoResultResponse item actualizado + asiento generado.
type MovimientoResultResponse struct {
	Item       ItemStockResponse  `json:"item"`
	Movimiento MovimientoResponse `json:"movimiento"`
}

// ProduccionResponse resultado de una producción.
type ProduccionResponse struct {
	Salida        ItemStockResponse    `json:"salida"`
	Movimientos   []MovimientoResponse `json:"movimientos"`
	CorrelacionID string               `json:"correlacion_id"`
}

// ReversoEventoResponse compensaciones generadas al revertir un evento.
type ReversoEventoResponse struct {
	CorrelacionID  string               `json:"correlacion_id"`
	Compensaciones []MovimientoResponse `json:"compensaciones"`
}

// MovimientoListResponse lista paginada de movimientos.
type MovimientoListResponse struct {
	Items []MovimientoResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
