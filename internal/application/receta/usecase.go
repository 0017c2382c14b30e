package receta

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/produccion-api/internal/application/inventario"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
	"github.com/jhoicas/produccion-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Reversor deshace eventos de producción por ID de correlación. Lo implementa
// inventario.ReversoService; la interfaz permite fakes en tests.
type Reversor interface {
	RevertirEvento(ctx context.Context, correlacionID, operador string) (*inventario.ReversoEventoResult, error)
}

// UseCase ciclo de vida de recetas: CRUD más la máquina de estados
// borrador → en_proceso ⇄ pausado → completado, con el eje de fases
// preparado → intermedio → terminado y su historial.
type UseCase struct {
	recetaRepo repository.RecetaRepository
	itemRepo   repository.ItemStockRepository
	movRepo    repository.MovimientoRepository
	reversos   Reversor
	log        *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	recetaRepo repository.RecetaRepository,
	itemRepo repository.ItemStockRepository,
	movRepo repository.MovimientoRepository,
	reversos Reversor,
	log *logger.Logger,
) *UseCase {
	return &UseCase{recetaRepo: recetaRepo, itemRepo: itemRepo, movRepo: movRepo, reversos: reversos, log: log}
}

// CrearInput datos de alta de una receta.
type CrearInput struct {
	Nombre       string
	Descripcion  string
	Ingredientes []entity.IngredienteReceta
	Rendimiento  decimal.Decimal
	UnidadRinde  string
}

// Crear registra la receta en estado borrador y crea su item de stock de
// salida (tipo receta, mismo ID, contadores en cero) para que el motor de
// movimientos la trate como a cualquier otro item.
func (uc *UseCase) Crear(in CrearInput) (*entity.Receta, error) {
	if in.Nombre == "" || !in.Rendimiento.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	for _, ing := range in.Ingredientes {
		if ing.IngredienteID == "" || !ing.Cantidad.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	receta := &entity.Receta{
		ID:           uuid.New().String(),
		Nombre:       in.Nombre,
		Descripcion:  in.Descripcion,
		Ingredientes: in.Ingredientes,
		Rendimiento:  in.Rendimiento,
		UnidadRinde:  in.UnidadRinde,
		Estado:       entity.EstadoBorrador,
		FaseActual:   entity.FasePreparado,
		Activo:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.recetaRepo.Create(receta); err != nil {
		return nil, err
	}
	item := &entity.ItemStock{
		ID:        receta.ID,
		Tipo:      entity.TipoReceta,
		Nombre:    receta.Nombre,
		Unidad:    receta.UnidadRinde,
		Adquirido: decimal.Zero,
		Consumido: decimal.Zero,
		Activo:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return receta, nil
}

// GetByID obtiene una receta por ID.
func (uc *UseCase) GetByID(id string) (*entity.Receta, error) {
	receta, err := uc.recetaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if receta == nil || !receta.Activo {
		return nil, domain.ErrNotFound
	}
	return receta, nil
}

// Listar lista recetas paginadas.
func (uc *UseCase) Listar(limit, offset int) ([]*entity.Receta, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.recetaRepo.List(limit, offset)
}

// Iniciar pasa de borrador a en_proceso y abre el historial de la fase
// preparado. Desde cualquier otro estado es transición inválida.
func (uc *UseCase) Iniciar(id, notas string) (*entity.Receta, error) {
	receta, err := uc.GetByID(id)
	if err != nil {
		return nil, err
	}
	if receta.Estado != entity.EstadoBorrador {
		return nil, &domain.TransicionInvalidaError{Operacion: "iniciar", Estado: receta.Estado}
	}
	now := time.Now()
	receta.Estado = entity.EstadoEnProceso
	receta.AbrirFase(entity.FasePreparado, now, notas)
	receta.UpdatedAt = now
	if err := uc.recetaRepo.Update(receta); err != nil {
		return nil, err
	}
	return receta, nil
}

// AvanzarFase cierra el registro de la fase actual y abre el de la siguiente.
// Solo desde en_proceso y con fase anterior a terminado; al llegar a terminado
// el estado pasa a completado.
func (uc *UseCase) AvanzarFase(id, notas string) (*entity.Receta, error) {
	receta, err := uc.GetByID(id)
	if err != nil {
		return nil, err
	}
	if receta.Estado != entity.EstadoEnProceso {
		return nil, &domain.TransicionInvalidaError{Operacion: "avanzar fase de", Estado: receta.Estado}
	}
	siguiente := entity.SiguienteFase(receta.FaseActual)
	if siguiente == "" {
		return nil, &domain.TransicionInvalidaError{Operacion: "avanzar fase de", Estado: receta.FaseActual}
	}
	now := time.Now()
	receta.CerrarFaseActual(now)
	receta.AbrirFase(siguiente, now, notas)
	if siguiente == entity.FaseTerminado {
		receta.Estado = entity.EstadoCompletado
	}
	receta.UpdatedAt = now
	if err := uc.recetaRepo.Update(receta); err != nil {
		return nil, err
	}
	return receta, nil
}

// Pausar pasa de en_proceso a pausado.
func (uc *UseCase) Pausar(id string) (*entity.Receta, error) {
	return uc.toggle(id, entity.EstadoEnProceso, entity.EstadoPausado, "pausar")
}

// Reanudar pasa de pausado a en_proceso.
func (uc *UseCase) Reanudar(id string) (*entity.Receta, error) {
	return uc.toggle(id, entity.EstadoPausado, entity.EstadoEnProceso, "reanudar")
}

func (uc *UseCase) toggle(id, desde, hacia, operacion string) (*entity.Receta, error) {
	receta, err := uc.GetByID(id)
	if err != nil {
		return nil, err
	}
	if receta.Estado != desde {
		return nil, &domain.TransicionInvalidaError{Operacion: operacion, Estado: receta.Estado}
	}
	receta.Estado = hacia
	receta.UpdatedAt = time.Now()
	if err := uc.recetaRepo.Update(receta); err != nil {
		return nil, err
	}
	return receta, nil
}

// Reiniciar vuelve la receta a borrador/preparado desde cualquier estado que no
// sea borrador, cerrando la fase en curso y anotando el reinicio en el
// historial. Como la receta vuelve a un estado no comprometido, se restauran
// los insumos consumidos revirtiendo sus producciones activas (misma política
// que Desactivar).
func (uc *UseCase) Reiniciar(ctx context.Context, id, operador string) (*entity.Receta, error) {
	receta, err := uc.GetByID(id)
	if err != nil {
		return nil, err
	}
	if receta.Estado == entity.EstadoBorrador {
		return nil, &domain.TransicionInvalidaError{Operacion: "reiniciar", Estado: receta.Estado}
	}
	if err := uc.revertirProduccionesActivas(ctx, receta.ID, operador); err != nil {
		return nil, err
	}
	now := time.Now()
	receta.CerrarFaseActual(now)
	receta.Estado = entity.EstadoBorrador
	receta.AbrirFase(entity.FasePreparado, now, "reinicio")
	receta.UpdatedAt = now
	if err := uc.recetaRepo.Update(receta); err != nil {
		return nil, err
	}
	uc.log.Info().Str("receta_id", id).Str("operador", operador).Msg("receta reiniciada")
	return receta, nil
}

// Desactivar baja lógica de la receta y de su item de stock. Antes de retirar
// la receta se revierten sus producciones activas para devolver al inventario
// las cantidades que quedaron comprometidas en consumos.
func (uc *UseCase) Desactivar(ctx context.Context, id, operador string) error {
	receta, err := uc.GetByID(id)
	if err != nil {
		return err
	}
	if err := uc.revertirProduccionesActivas(ctx, receta.ID, operador); err != nil {
		return err
	}
	now := time.Now()
	receta.Activo = false
	receta.UpdatedAt = now
	if err := uc.recetaRepo.Update(receta); err != nil {
		return err
	}
	item, err := uc.itemRepo.GetByID(receta.ID)
	if err != nil {
		return err
	}
	if item != nil && item.Activo {
		item.Activo = false
		item.UpdatedAt = now
		if err := uc.itemRepo.Update(item); err != nil {
			return err
		}
	}
	uc.log.Info().Str("receta_id", id).Str("operador", operador).Msg("receta desactivada")
	return nil
}

// revertirProduccionesActivas localiza los eventos de producción activos cuyo
// item de salida es la receta y los revierte uno por uno.
func (uc *UseCase) revertirProduccionesActivas(ctx context.Context, recetaID, operador string) error {
	correlaciones, err := uc.movRepo.ListCorrelacionesActivasPorItem(recetaID)
	if err != nil {
		return err
	}
	for _, correlacionID := range correlaciones {
		if _, err := uc.reversos.RevertirEvento(ctx, correlacionID, operador); err != nil {
			return err
		}
	}
	return nil
}
