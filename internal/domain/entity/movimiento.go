package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Direcciones de un movimiento.
const (
	DireccionEntrada = "entrada"
	DireccionSalida  = "salida"
)

// Subtipos semánticos de movimiento.
const (
	SubtipoManual     = "manual"     // entrada/salida registrada a mano
	SubtipoProduccion = "produccion" // crédito de salida de una producción
	SubtipoConsumo    = "consumo"    // débito de insumo por una producción
	SubtipoAjuste     = "ajuste"     // corrección de inventario
	SubtipoMerma      = "merma"      // desperdicio / residuo
	SubtipoReverso    = "reverso"    // asiento de compensación de un reverso
)

// Movimiento es un asiento del libro de movimientos. CantidadAntes y
// CantidadDespues registran el contador mutado (Adquirido en entradas,
// Consumido en salidas) al momento de la escritura:
// CantidadDespues == CantidadAntes + Cantidad, siempre.
//
// CorrelacionID agrupa los N asientos de un mismo evento de producción; es
// columna propia e indexada para que el motor de reversos busque por igualdad
// exacta. RevertidoPor enlaza al asiento de compensación cuando este movimiento
// ya fue revertido: los originales se conservan, nunca se borran.
type Movimiento struct {
	ID              string
	ItemID          string
	ItemTipo        string
	Direccion       string
	Subtipo         string
	Cantidad        decimal.Decimal
	CantidadAntes   decimal.Decimal
	CantidadDespues decimal.Decimal
	Motivo          string
	Operador        string
	CorrelacionID   *string
	RevertidoPor    *string
	Detalles        json.RawMessage
	Fecha           time.Time
	CreatedAt       time.Time
}

// Revertido indica si el movimiento ya fue compensado por un reverso.
func (m *Movimiento) Revertido() bool { return m.RevertidoPor != nil }
