package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrNotReversible      = errors.New("movimiento no reversible")
	ErrNothingToReverse   = errors.New("no hay movimientos que revertir")
)

// StockInsuficienteError falla de precondición en un consumo: el disponible del
// item no alcanza lo solicitado. No se realizó ninguna mutación.
type StockInsuficienteError struct {
	ItemNombre string
	Disponible decimal.Decimal
	Solicitado decimal.Decimal
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente de %q: disponible %s, solicitado %s",
		e.ItemNombre, e.Disponible, e.Solicitado)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *StockInsuficienteError) Unwrap() error { return ErrInsufficientStock }

// Faltante describe un insumo sin disponibilidad suficiente dentro de una producción.
type Faltante struct {
	ItemID     string
	ItemNombre string
	Disponible decimal.Decimal
	Solicitado decimal.Decimal
}

// InventarioInsuficienteError agrega TODOS los faltantes detectados en la
// verificación previa de una producción (no se corta en el primero).
type InventarioInsuficienteError struct {
	Faltantes []Faltante
}

func (e *InventarioInsuficienteError) Error() string {
	nombres := make([]string, 0, len(e.Faltantes))
	for _, f := range e.Faltantes {
		nombres = append(nombres, f.ItemNombre)
	}
	return "inventario insuficiente para producir: " + strings.Join(nombres, ", ")
}

func (e *InventarioInsuficienteError) Unwrap() error { return ErrInsufficientStock }

// TransicionInvalidaError operación del ciclo de vida de receta llamada fuera de orden.
type TransicionInvalidaError struct {
	Operacion string
	Estado    string
}

func (e *TransicionInvalidaError) Error() string {
	return fmt.Sprintf("no se puede %s una receta en estado %q", e.Operacion, e.Estado)
}

func (e *TransicionInvalidaError) Unwrap() error { return ErrInvalidTransition }
