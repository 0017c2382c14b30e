package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
	"github.com/jhoicas/produccion-api/pkg/texto"
	"github.com/shopspring/decimal"
)

// ProductoUseCase CRUD del catálogo de productos terminados. El stock se maneja
// vía movimientos; aquí solo se leen el registro espejado y los metadatos.
type ProductoUseCase struct {
	repo    repository.ProductoRepository
	invRepo repository.RegistroInventarioRepository
}

// NewProductoUseCase construye el caso de uso.
func NewProductoUseCase(repo repository.ProductoRepository, invRepo repository.RegistroInventarioRepository) *ProductoUseCase {
	return &ProductoUseCase{repo: repo, invRepo: invRepo}
}

// Crear crea un producto de catálogo. El código debe ser único.
func (uc *ProductoUseCase) Crear(in dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	existing, _ := uc.repo.GetByCodigo(in.Codigo)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	producto := &entity.Producto{
		ID:          uuid.New().String(),
		Codigo:      in.Codigo,
		Nombre:      in.Nombre,
		Descripcion: in.Descripcion,
		Unidad:      in.Unidad,
		Activo:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(producto); err != nil {
		return nil, err
	}
	return uc.toResponse(producto), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductoUseCase) GetByID(id string) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(producto), nil
}

// Actualizar actualización parcial; el stock no se toca desde aquí.
func (uc *ProductoUseCase) Actualizar(id string, in dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrNotFound
	}
	if in.Nombre != nil {
		producto.Nombre = *in.Nombre
	}
	if in.Descripcion != nil {
		producto.Descripcion = *in.Descripcion
	}
	if in.Unidad != nil {
		producto.Unidad = *in.Unidad
	}
	producto.UpdatedAt = time.Now()
	if err := uc.repo.Update(producto); err != nil {
		return nil, err
	}
	return uc.toResponse(producto), nil
}

// Listar lista productos; buscar filtra por nombre sin distinguir acentos
// ni mayúsculas ("Café" encuentra "cafe").
func (uc *ProductoUseCase) Listar(buscar string, limit, offset int) ([]dto.ProductoResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	productos, err := uc.repo.List(texto.Normalizar(buscar), limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		out = append(out, *uc.toResponse(p))
	}
	return out, nil
}

func (uc *ProductoUseCase) toResponse(p *entity.Producto) *dto.ProductoResponse {
	stock := decimal.Zero
	if registro, err := uc.invRepo.Get(p.ID); err == nil && registro != nil {
		stock = registro.Stock
	}
	return &dto.ProductoResponse{
		ID:          p.ID,
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Unidad:      p.Unidad,
		Stock:       stock,
		Activo:      p.Activo,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
