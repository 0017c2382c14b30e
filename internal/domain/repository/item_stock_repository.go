package repository

import "github.com/jhoicas/produccion-api/internal/domain/entity"

// ItemStockRepository define el puerto de persistencia para ItemStock (DIP).
type ItemStockRepository interface {
	Create(item *entity.ItemStock) error
	GetByID(id string) (*entity.ItemStock, error)
	// GetForUpdate obtiene el item bloqueando la fila (SELECT FOR UPDATE) para
	// que la verificación de disponible y la mutación sean atómicas bajo concurrencia.
	GetForUpdate(id string) (*entity.ItemStock, error)
	Update(item *entity.ItemStock) error
	ListByTipo(tipo string, limit, offset int) ([]*entity.ItemStock, error)
}
