package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una receta.
const (
	EstadoBorrador   = "borrador"
	EstadoEnProceso  = "en_proceso"
	EstadoPausado    = "pausado"
	EstadoCompletado = "completado"
)

// Fases de elaboración. Eje independiente del estado: avanza de forma
// monótona y el estado solo llega a completado cuando la fase llega a terminado.
const (
	FasePreparado  = "preparado"
	FaseIntermedio = "intermedio"
	FaseTerminado  = "terminado"
)

// SiguienteFase devuelve la fase que sigue a la actual ("" si ya es terminado).
func SiguienteFase(fase string) string {
	switch fase {
	case FasePreparado:
		return FaseIntermedio
	case FaseIntermedio:
		return FaseTerminado
	}
	return ""
}

// IngredienteReceta un insumo de la receta: referencia a un ItemStock de tipo
// ingrediente con la cantidad requerida por lote.
type IngredienteReceta struct {
	IngredienteID string          `json:"ingrediente_id"`
	Nombre        string          `json:"nombre"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	Unidad        string          `json:"unidad"`
}

// FaseHistorial registro de una fase: cuándo empezó, cuándo terminó y notas.
type FaseHistorial struct {
	Fase   string     `json:"fase"`
	Inicio time.Time  `json:"inicio"`
	Fin    *time.Time `json:"fin,omitempty"`
	Notas  string     `json:"notas,omitempty"`
}

// Receta receta multi-fase. Su stock de salida (producido/utilizado) vive como
// ItemStock de tipo receta con el mismo ID, de modo que el motor de movimientos
// la trata igual que a cualquier otro item.
type Receta struct {
	ID           string
	Nombre       string
	Descripcion  string
	Ingredientes []IngredienteReceta
	Rendimiento  decimal.Decimal // unidades producidas por lote
	UnidadRinde  string
	Estado       string
	FaseActual   string
	Historial    []FaseHistorial
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CerrarFaseActual pone fin al último registro de historial abierto.
func (r *Receta) CerrarFaseActual(fin time.Time) {
	for i := len(r.Historial) - 1; i >= 0; i-- {
		if r.Historial[i].Fin == nil {
			f := fin
			r.Historial[i].Fin = &f
			return
		}
	}
}

// AbrirFase agrega un registro de historial para la fase indicada.
func (r *Receta) AbrirFase(fase string, inicio time.Time, notas string) {
	r.FaseActual = fase
	r.Historial = append(r.Historial, FaseHistorial{Fase: fase, Inicio: inicio, Notas: notas})
}
