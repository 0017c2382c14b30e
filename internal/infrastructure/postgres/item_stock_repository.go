package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.ItemStockRepository = (*ItemStockRepo)(nil)

const itemStockColumns = "id, tipo, nombre, unidad, adquirido, consumido, activo, created_at, updated_at"

// ItemStockRepo implementación de ItemStockRepository sobre PostgreSQL
// (usable con pool o tx).
type ItemStockRepo struct {
	q Querier
}

// NewItemStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemStockRepository(q Querier) *ItemStockRepo {
	return &ItemStockRepo{q: q}
}

// Create persiste un item de stock nuevo.
func (r *ItemStockRepo) Create(item *entity.ItemStock) error {
	query := `
		INSERT INTO stock_items (id, tipo, nombre, unidad, adquirido, consumido, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Tipo, item.Nombre, item.Unidad,
		item.Adquirido, item.Consumido, item.Activo, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock item: %w", err)
	}
	return nil
}

// GetByID obtiene un item por ID (nil si no existe).
func (r *ItemStockRepo) GetByID(id string) (*entity.ItemStock, error) {
	query := `SELECT ` + itemStockColumns + ` FROM stock_items WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene el item bloqueando la fila (SELECT FOR UPDATE) para que
// el chequeo de disponible valga hasta el commit.
func (r *ItemStockRepo) GetForUpdate(id string) (*entity.ItemStock, error) {
	query := `SELECT ` + itemStockColumns + ` FROM stock_items WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update persiste contadores y estado del item.
func (r *ItemStockRepo) Update(item *entity.ItemStock) error {
	query := `
		UPDATE stock_items
		SET nombre = $2, unidad = $3, adquirido = $4, consumido = $5, activo = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Nombre, item.Unidad, item.Adquirido, item.Consumido, item.Activo, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	return nil
}

// ListByTipo lista items activos de un tipo, paginados.
func (r *ItemStockRepo) ListByTipo(tipo string, limit, offset int) ([]*entity.ItemStock, error) {
	query := `
		SELECT ` + itemStockColumns + `
		FROM stock_items WHERE tipo = $1 AND activo
		ORDER BY nombre LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tipo, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	var list []*entity.ItemStock
	for rows.Next() {
		var i entity.ItemStock
		if err := rows.Scan(&i.ID, &i.Tipo, &i.Nombre, &i.Unidad,
			&i.Adquirido, &i.Consumido, &i.Activo, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

func (r *ItemStockRepo) scanOne(row pgx.Row) (*entity.ItemStock, error) {
	var i entity.ItemStock
	err := row.Scan(&i.ID, &i.Tipo, &i.Nombre, &i.Unidad,
		&i.Adquirido, &i.Consumido, &i.Activo, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return &i, nil
}
