package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegistroInventario stock actual de un producto de catálogo, espejado desde
// el ItemStock correspondiente en cada crédito/débito/reverso. Materializado
// para consultas rápidas del catálogo sin recalcular contadores.
type RegistroInventario struct {
	ProductoID string
	Stock      decimal.Decimal
	UpdatedAt  time.Time
}
