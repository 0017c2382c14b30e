package repository

import "github.com/jhoicas/produccion-api/internal/domain/entity"

// RegistroInventarioRepository puerto de persistencia del stock espejado de catálogo.
type RegistroInventarioRepository interface {
	Get(productoID string) (*entity.RegistroInventario, error)
	Upsert(registro *entity.RegistroInventario) error
}
