package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.RecetaRepository = (*RecetaRepo)(nil)

const recetaColumns = `id, nombre, descripcion, ingredientes, rendimiento,
	unidad_rinde, estado, fase_actual, historial, activo, created_at, updated_at`

// RecetaRepo implementación de RecetaRepository sobre PostgreSQL. Ingredientes
// e historial de fases se guardan como jsonb: son listas que viajan enteras
// con la receta.
type RecetaRepo struct {
	q Querier
}

// NewRecetaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecetaRepository(q Querier) *RecetaRepo {
	return &RecetaRepo{q: q}
}

// Create persiste una receta nueva.
func (r *RecetaRepo) Create(receta *entity.Receta) error {
	ingredientes, historial, err := marshalReceta(receta)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO recetas (id, nombre, descripcion, ingredientes, rendimiento,
			unidad_rinde, estado, fase_actual, historial, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.q.Exec(context.Background(), query,
		receta.ID, receta.Nombre, receta.Descripcion, ingredientes, receta.Rendimiento,
		receta.UnidadRinde, receta.Estado, receta.FaseActual, historial, receta.Activo,
		receta.CreatedAt, receta.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create receta: %w", err)
	}
	return nil
}

// GetByID obtiene una receta por ID (nil si no existe).
func (r *RecetaRepo) GetByID(id string) (*entity.Receta, error) {
	query := `SELECT ` + recetaColumns + ` FROM recetas WHERE id = $1`
	receta, err := scanReceta(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receta: %w", err)
	}
	return receta, nil
}

// Update persiste estado, fase, historial y metadatos de la receta.
func (r *RecetaRepo) Update(receta *entity.Receta) error {
	ingredientes, historial, err := marshalReceta(receta)
	if err != nil {
		return err
	}
	query := `
		UPDATE recetas
		SET nombre = $2, descripcion = $3, ingredientes = $4, rendimiento = $5,
			unidad_rinde = $6, estado = $7, fase_actual = $8, historial = $9,
			activo = $10, updated_at = $11
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		receta.ID, receta.Nombre, receta.Descripcion, ingredientes, receta.Rendimiento,
		receta.UnidadRinde, receta.Estado, receta.FaseActual, historial, receta.Activo,
		receta.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update receta: %w", err)
	}
	return nil
}

// List lista recetas activas, paginadas.
func (r *RecetaRepo) List(limit, offset int) ([]*entity.Receta, error) {
	query := `
		SELECT ` + recetaColumns + `
		FROM recetas WHERE activo
		ORDER BY nombre LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list recetas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Receta
	for rows.Next() {
		receta, err := scanReceta(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receta: %w", err)
		}
		list = append(list, receta)
	}
	return list, rows.Err()
}

func marshalReceta(receta *entity.Receta) (ingredientes, historial []byte, err error) {
	ingredientes, err = json.Marshal(receta.Ingredientes)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal ingredientes: %w", err)
	}
	historial, err = json.Marshal(receta.Historial)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal historial: %w", err)
	}
	return ingredientes, historial, nil
}

func scanReceta(row pgx.Row) (*entity.Receta, error) {
	var receta entity.Receta
	var ingredientes, historial []byte
	err := row.Scan(&receta.ID, &receta.Nombre, &receta.Descripcion, &ingredientes,
		&receta.Rendimiento, &receta.UnidadRinde, &receta.Estado, &receta.FaseActual,
		&historial, &receta.Activo, &receta.CreatedAt, &receta.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(ingredientes) > 0 {
		if err := json.Unmarshal(ingredientes, &receta.Ingredientes); err != nil {
			return nil, fmt.Errorf("unmarshal ingredientes: %w", err)
		}
	}
	if len(historial) > 0 {
		if err := json.Unmarshal(historial, &receta.Historial); err != nil {
			return nil, fmt.Errorf("unmarshal historial: %w", err)
		}
	}
	return &receta, nil
}
