package repository

import "github.com/jhoicas/produccion-api/internal/domain/entity"

// RecetaRepository define el puerto de persistencia para Receta (DIP).
type RecetaRepository interface {
	Create(receta *entity.Receta) error
	GetByID(id string) (*entity.Receta, error)
	Update(receta *entity.Receta) error
	List(limit, offset int) ([]*entity.Receta, error)
}
