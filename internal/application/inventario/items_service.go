package inventario

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ItemsService alta, consulta y baja lógica de items de stock (ingredientes y
// materiales; los items de tipo receta y producto se crean desde sus módulos).
type ItemsService struct {
	itemRepo repository.ItemStockRepository
}

// NewItemsService construye el servicio.
func NewItemsService(itemRepo repository.ItemStockRepository) *ItemsService {
	return &ItemsService{itemRepo: itemRepo}
}

// Crear registra un item nuevo con contadores en cero. El stock inicial se
// carga después con un crédito, para que quede asentado en el libro.
func (s *ItemsService) Crear(tipo, nombre, unidad string) (*entity.ItemStock, error) {
	if nombre == "" || unidad == "" {
		return nil, domain.ErrInvalidInput
	}
	if tipo != entity.TipoIngrediente && tipo != entity.TipoMaterial {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.ItemStock{
		ID:        uuid.New().String(),
		Tipo:      tipo,
		Nombre:    nombre,
		Unidad:    unidad,
		Adquirido: decimal.Zero,
		Consumido: decimal.Zero,
		Activo:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID obtiene un item por ID.
func (s *ItemsService) GetByID(id string) (*entity.ItemStock, error) {
	return s.itemRepo.GetByID(id)
}

// ListarByTipo lista items de un tipo, paginados.
func (s *ItemsService) ListarByTipo(tipo string, limit, offset int) ([]*entity.ItemStock, error) {
	if !entity.TipoValido(tipo) {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.itemRepo.ListByTipo(tipo, limit, offset)
}

// Desactivar baja lógica: el item deja de admitir mutaciones de cantidad pero
// conserva sus contadores e historial de movimientos.
func (s *ItemsService) Desactivar(id string) error {
	item, err := s.itemRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil || !item.Activo {
		return domain.ErrNotFound
	}
	item.Activo = false
	item.UpdatedAt = time.Now()
	return s.itemRepo.Update(item)
}
