package repository

import "github.com/jhoicas/produccion-api/internal/domain/entity"

// ProductoRepository define el puerto de persistencia para Producto (DIP).
type ProductoRepository interface {
	Create(producto *entity.Producto) error
	GetByID(id string) (*entity.Producto, error)
	GetByCodigo(codigo string) (*entity.Producto, error)
	Update(producto *entity.Producto) error
	// List filtra por nombre normalizado (sin acentos) si buscar no es vacío.
	List(buscar string, limit, offset int) ([]*entity.Producto, error)
}
