package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de item de stock. Determinan qué significan los contadores:
//   - ingrediente/material: Adquirido = comprado, Consumido = usado en producción
//   - receta: Adquirido = producido, Consumido = usado como sub-receta
//   - producto: Adquirido = entradas al stock de venta, Consumido = salidas
const (
	TipoIngrediente = "ingrediente"
	TipoMaterial    = "material"
	TipoReceta      = "receta"
	TipoProducto    = "producto"
)

// TipoValido verifica que el tipo de item sea uno de los conocidos.
func TipoValido(tipo string) bool {
	switch tipo {
	case TipoIngrediente, TipoMaterial, TipoReceta, TipoProducto:
		return true
	}
	return false
}

// ItemStock es la entidad de stock unificada sobre la que opera el motor de
// movimientos. Los contadores son de una sola dirección: un consumo incrementa
// Consumido, nunca decrementa Adquirido; así el disponible siempre es derivable
// y revertir un movimiento es el inverso aritmético exacto.
type ItemStock struct {
	ID        string
	Tipo      string
	Nombre    string
	Unidad    string
	Adquirido decimal.Decimal // adquirido / producido / entradas, según Tipo
	Consumido decimal.Decimal // consumido / utilizado / salidas, según Tipo
	Activo    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Disponible cantidad disponible del item. Invariante: nunca negativo; un
// consumo que lo violaría debe fallar antes de persistir cualquier mutación.
func (i *ItemStock) Disponible() decimal.Decimal {
	return i.Adquirido.Sub(i.Consumido)
}
