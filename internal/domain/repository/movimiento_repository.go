package repository

import (
	"time"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

// MovimientoFilter filtros del listado de movimientos. Campos vacíos no filtran.
type MovimientoFilter struct {
	ItemID    string
	ItemTipo  string
	Direccion string
	Subtipo   string
	Operador  string
	Desde     *time.Time
	Hasta     *time.Time
}

// MovimientoRepository define el puerto de persistencia para el libro de movimientos.
type MovimientoRepository interface {
	Create(mov *entity.Movimiento) error
	GetByID(id string) (*entity.Movimiento, error)
	// ListActivosByCorrelacion devuelve los asientos NO revertidos de un evento
	// (igualdad exacta sobre la columna correlacion_id, nunca substring).
	ListActivosByCorrelacion(correlacionID string) ([]*entity.Movimiento, error)
	// ListCorrelacionesActivasPorItem devuelve los IDs de correlación (sin
	// duplicados) de los eventos activos cuya salida acreditada es el item.
	// Los débitos donde el item fue insumo de otro evento quedan fuera: ese
	// evento pertenece a su propia salida. Lo usa el ciclo de vida de recetas
	// para localizar sus producciones pendientes de restaurar.
	ListCorrelacionesActivasPorItem(itemID string) ([]string, error)
	// MarcarRevertido enlaza el asiento original con su compensación.
	MarcarRevertido(id, reversoID string) error
	List(filter MovimientoFilter, limit, offset int) ([]*entity.Movimiento, int, error)
}
