package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

const movimientoColumns = `id, item_id, item_tipo, direccion, subtipo, cantidad,
	cantidad_antes, cantidad_despues, motivo, operador, correlacion_id,
	revertido_por, detalles, fecha, created_at`

// MovimientoRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La columna correlacion_id está indexada: la búsqueda
// de un evento es por igualdad exacta, nunca por substring del motivo.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

// Create persiste un asiento del libro.
func (r *MovimientoRepo) Create(mov *entity.Movimiento) error {
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos (id, item_id, item_tipo, direccion, subtipo, cantidad,
			cantidad_antes, cantidad_despues, motivo, operador, correlacion_id,
			revertido_por, detalles, fecha, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	var detalles any
	if len(mov.Detalles) > 0 {
		detalles = []byte(mov.Detalles)
	}
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.ItemID, mov.ItemTipo, mov.Direccion, mov.Subtipo, mov.Cantidad,
		mov.CantidadAntes, mov.CantidadDespues, mov.Motivo, mov.Operador, mov.CorrelacionID,
		mov.RevertidoPor, detalles, mov.Fecha, mov.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID (nil si no existe).
func (r *MovimientoRepo) GetByID(id string) (*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumns + ` FROM movimientos WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	mov, err := scanMovimiento(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return mov, nil
}

// ListActivosByCorrelacion asientos NO revertidos de un evento, en orden de
// creación. Excluye compensaciones (subtipo reverso) para que revertir un
// reverso no sea posible.
func (r *MovimientoRepo) ListActivosByCorrelacion(correlacionID string) ([]*entity.Movimiento, error) {
	query := `
		SELECT ` + movimientoColumns + `
		FROM movimientos
		WHERE correlacion_id = $1 AND revertido_por IS NULL AND subtipo <> $2
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, correlacionID, entity.SubtipoReverso)
	if err != nil {
		return nil, fmt.Errorf("list by correlacion: %w", err)
	}
	defer rows.Close()
	return scanMovimientos(rows)
}

// ListCorrelacionesActivasPorItem IDs de correlación (sin duplicados) de los
// eventos activos cuya salida acreditada es el item. Solo cuentan las entradas
// de producción o manuales: un débito donde el item participó como insumo
// pertenece al evento de otra salida y no debe aparecer aquí.
func (r *MovimientoRepo) ListCorrelacionesActivasPorItem(itemID string) ([]string, error) {
	query := `
		SELECT DISTINCT correlacion_id
		FROM movimientos
		WHERE item_id = $1 AND correlacion_id IS NOT NULL
		  AND revertido_por IS NULL
		  AND direccion = $2 AND subtipo IN ($3, $4)`
	rows, err := r.q.Query(context.Background(), query, itemID,
		entity.DireccionEntrada, entity.SubtipoProduccion, entity.SubtipoManual)
	if err != nil {
		return nil, fmt.Errorf("list correlaciones por item: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan correlacion: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarcarRevertido enlaza el asiento original con su compensación.
func (r *MovimientoRepo) MarcarRevertido(id, reversoID string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE movimientos SET revertido_por = $2 WHERE id = $1 AND revertido_por IS NULL`,
		id, reversoID,
	)
	if err != nil {
		return fmt.Errorf("marcar revertido: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("marcar revertido: movimiento %s no encontrado o ya revertido", id)
	}
	return nil
}

// List movimientos que cumplen el filtro, paginados, más el total sin paginar.
func (r *MovimientoRepo) List(filter repository.MovimientoFilter, limit, offset int) ([]*entity.Movimiento, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	pos := 1
	add := func(cond string, val any) {
		where += fmt.Sprintf(" AND "+cond, pos)
		args = append(args, val)
		pos++
	}
	if filter.ItemID != "" {
		add("item_id = $%d", filter.ItemID)
	}
	if filter.ItemTipo != "" {
		add("item_tipo = $%d", filter.ItemTipo)
	}
	if filter.Direccion != "" {
		add("direccion = $%d", filter.Direccion)
	}
	if filter.Subtipo != "" {
		add("subtipo = $%d", filter.Subtipo)
	}
	if filter.Operador != "" {
		add("operador = $%d", filter.Operador)
	}
	if filter.Desde != nil {
		add("fecha >= $%d", *filter.Desde)
	}
	if filter.Hasta != nil {
		add("fecha <= $%d", *filter.Hasta)
	}

	var total int
	countQuery := "SELECT count(*) FROM movimientos" + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movimientos: %w", err)
	}

	query := "SELECT " + movimientoColumns + " FROM movimientos" + where +
		fmt.Sprintf(" ORDER BY fecha DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	list, err := scanMovimientos(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func scanMovimiento(row pgx.Row) (*entity.Movimiento, error) {
	var m entity.Movimiento
	var detalles []byte
	err := row.Scan(&m.ID, &m.ItemID, &m.ItemTipo, &m.Direccion, &m.Subtipo, &m.Cantidad,
		&m.CantidadAntes, &m.CantidadDespues, &m.Motivo, &m.Operador, &m.CorrelacionID,
		&m.RevertidoPor, &detalles, &m.Fecha, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Detalles = detalles
	return &m, nil
}

func scanMovimientos(rows pgx.Rows) ([]*entity.Movimiento, error) {
	var list []*entity.Movimiento
	for rows.Next() {
		mov, err := scanMovimiento(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, mov)
	}
	return list, rows.Err()
}
