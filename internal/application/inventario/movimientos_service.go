package inventario

import (
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// MovimientosService consultas de solo lectura sobre el libro de movimientos.
type MovimientosService struct {
	movRepo repository.MovimientoRepository
}

// NewMovimientosService construye el servicio de consulta.
func NewMovimientosService(movRepo repository.MovimientoRepository) *MovimientosService {
	return &MovimientosService{movRepo: movRepo}
}

// Listar devuelve los movimientos que cumplen el filtro, paginados, y el total.
func (s *MovimientosService) Listar(filter repository.MovimientoFilter, limit, offset int) ([]*entity.Movimiento, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.movRepo.List(filter, limit, offset)
}

// GetByID obtiene un movimiento puntual.
func (s *MovimientosService) GetByID(id string) (*entity.Movimiento, error) {
	return s.movRepo.GetByID(id)
}
