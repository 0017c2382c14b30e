package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.RegistroInventarioRepository = (*RegistroInventarioRepo)(nil)

// RegistroInventarioRepo stock espejado por producto de catálogo.
type RegistroInventarioRepo struct {
	q Querier
}

// NewRegistroInventarioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRegistroInventarioRepository(q Querier) *RegistroInventarioRepo {
	return &RegistroInventarioRepo{q: q}
}

// Get obtiene el registro de un producto (nil si nunca tuvo stock).
func (r *RegistroInventarioRepo) Get(productoID string) (*entity.RegistroInventario, error) {
	query := `SELECT producto_id, stock, updated_at FROM registro_inventario WHERE producto_id = $1`
	var reg entity.RegistroInventario
	err := r.q.QueryRow(context.Background(), query, productoID).Scan(
		&reg.ProductoID, &reg.Stock, &reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registro inventario: %w", err)
	}
	return &reg, nil
}

// Upsert inserta o actualiza el stock espejado del producto.
func (r *RegistroInventarioRepo) Upsert(registro *entity.RegistroInventario) error {
	query := `
		INSERT INTO registro_inventario (producto_id, stock, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (producto_id)
		DO UPDATE SET stock = EXCLUDED.stock, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query, registro.ProductoID, registro.Stock, registro.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert registro inventario: %w", err)
	}
	return nil
}
