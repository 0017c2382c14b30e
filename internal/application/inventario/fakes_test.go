package inventario

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria para tests (sin PostgreSQL)
// ──────────────────────────────────────────────────────────────────────────────

type memItemRepo struct {
	items map[string]entity.ItemStock
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[string]entity.ItemStock)}
}

func (r *memItemRepo) Create(item *entity.ItemStock) error {
	if _, ok := r.items[item.ID]; ok {
		return fmt.Errorf("item %s ya existe", item.ID)
	}
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.ItemStock, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copia := item
	return &copia, nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.ItemStock, error) {
	return r.GetByID(id)
}

func (r *memItemRepo) Update(item *entity.ItemStock) error {
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) ListByTipo(tipo string, limit, offset int) ([]*entity.ItemStock, error) {
	var out []*entity.ItemStock
	for _, item := range r.items {
		if item.Tipo == tipo && item.Activo {
			copia := item
			out = append(out, &copia)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return paginar(out, limit, offset), nil
}

type memMovRepo struct {
	movs []entity.Movimiento
}

func newMemMovRepo() *memMovRepo { return &memMovRepo{} }

func (r *memMovRepo) Create(mov *entity.Movimiento) error {
	r.movs = append(r.movs, *mov)
	return nil
}

func (r *memMovRepo) GetByID(id string) (*entity.Movimiento, error) {
	for i := range r.movs {
		if r.movs[i].ID == id {
			copia := r.movs[i]
			return &copia, nil
		}
	}
	return nil, nil
}

func (r *memMovRepo) ListActivosByCorrelacion(correlacionID string) ([]*entity.Movimiento, error) {
	var out []*entity.Movimiento
	for i := range r.movs {
		m := r.movs[i]
		if m.CorrelacionID != nil && *m.CorrelacionID == correlacionID &&
			m.RevertidoPor == nil && m.Subtipo != entity.SubtipoReverso {
			copia := m
			out = append(out, &copia)
		}
	}
	return out, nil
}

func (r *memMovRepo) ListCorrelacionesActivasPorItem(itemID string) ([]string, error) {
	vistos := make(map[string]bool)
	var out []string
	for i := range r.movs {
		m := r.movs[i]
		if m.ItemID != itemID || m.CorrelacionID == nil || m.RevertidoPor != nil {
			continue
		}
		// Solo eventos cuya salida acreditada es el item; los consumos como
		// insumo de otro evento no cuentan.
		if m.Direccion != entity.DireccionEntrada ||
			(m.Subtipo != entity.SubtipoProduccion && m.Subtipo != entity.SubtipoManual) {
			continue
		}
		if !vistos[*m.CorrelacionID] {
			vistos[*m.CorrelacionID] = true
			out = append(out, *m.CorrelacionID)
		}
	}
	return out, nil
}

func (r *memMovRepo) MarcarRevertido(id, reversoID string) error {
	for i := range r.movs {
		if r.movs[i].ID == id {
			if r.movs[i].RevertidoPor != nil {
				return fmt.Errorf("movimiento %s ya revertido", id)
			}
			r.movs[i].RevertidoPor = &reversoID
			return nil
		}
	}
	return fmt.Errorf("movimiento %s no encontrado", id)
}

func (r *memMovRepo) List(filter repository.MovimientoFilter, limit, offset int) ([]*entity.Movimiento, int, error) {
	var out []*entity.Movimiento
	for i := range r.movs {
		m := r.movs[i]
		if filter.ItemID != "" && m.ItemID != filter.ItemID {
			continue
		}
		if filter.ItemTipo != "" && m.ItemTipo != filter.ItemTipo {
			continue
		}
		if filter.Direccion != "" && m.Direccion != filter.Direccion {
			continue
		}
		if filter.Subtipo != "" && m.Subtipo != filter.Subtipo {
			continue
		}
		if filter.Operador != "" && m.Operador != filter.Operador {
			continue
		}
		if filter.Desde != nil && m.Fecha.Before(*filter.Desde) {
			continue
		}
		if filter.Hasta != nil && m.Fecha.After(*filter.Hasta) {
			continue
		}
		copia := m
		out = append(out, &copia)
	}
	total := len(out)
	return paginar(out, limit, offset), total, nil
}

// porSubtipo filtra los movimientos registrados, útil para asserts.
func (r *memMovRepo) porSubtipo(subtipo string) []entity.Movimiento {
	var out []entity.Movimiento
	for _, m := range r.movs {
		if m.Subtipo == subtipo {
			out = append(out, m)
		}
	}
	return out
}

type memRegistroRepo struct {
	registros map[string]entity.RegistroInventario
}

func newMemRegistroRepo() *memRegistroRepo {
	return &memRegistroRepo{registros: make(map[string]entity.RegistroInventario)}
}

func (r *memRegistroRepo) Get(productoID string) (*entity.RegistroInventario, error) {
	reg, ok := r.registros[productoID]
	if !ok {
		return nil, nil
	}
	copia := reg
	return &copia, nil
}

func (r *memRegistroRepo) Upsert(registro *entity.RegistroInventario) error {
	r.registros[registro.ProductoID] = *registro
	return nil
}

func paginar[T any](in []*T, limit, offset int) []*T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner en memoria: restaura el estado previo si fn falla, emulando el
// rollback de PostgreSQL
// ──────────────────────────────────────────────────────────────────────────────

type memTxRunner struct {
	items     *memItemRepo
	movs      *memMovRepo
	registros *memRegistroRepo
}

func (tx *memTxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemStockRepository,
	movRepo repository.MovimientoRepository,
	invRepo repository.RegistroInventarioRepository,
) error) error {
	itemsAntes := make(map[string]entity.ItemStock, len(tx.items.items))
	for k, v := range tx.items.items {
		itemsAntes[k] = v
	}
	movsAntes := make([]entity.Movimiento, len(tx.movs.movs))
	copy(movsAntes, tx.movs.movs)
	registrosAntes := make(map[string]entity.RegistroInventario, len(tx.registros.registros))
	for k, v := range tx.registros.registros {
		registrosAntes[k] = v
	}

	if err := fn(tx.items, tx.movs, tx.registros); err != nil {
		tx.items.items = itemsAntes
		tx.movs.movs = movsAntes
		tx.registros.registros = registrosAntes
		return err
	}
	return nil
}

// entorno agrupa los fakes de un test.
type entorno struct {
	items     *memItemRepo
	movs      *memMovRepo
	registros *memRegistroRepo
	tx        *memTxRunner
}

func nuevoEntorno() *entorno {
	items := newMemItemRepo()
	movs := newMemMovRepo()
	registros := newMemRegistroRepo()
	return &entorno{
		items:     items,
		movs:      movs,
		registros: registros,
		tx:        &memTxRunner{items: items, movs: movs, registros: registros},
	}
}
