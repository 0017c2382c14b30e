package inventario

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockService expone las primitivas de débito (Consumir) y crédito (Acreditar)
// sobre un ItemStock. Cada primitiva muta exactamente un contador y escribe
// exactamente un asiento en el libro de movimientos, dentro de una transacción
// con la fila del item bloqueada (la verificación de disponible ocurre al
// momento de la escritura, no antes).
type StockService struct {
	txRunner TxRunner
	itemRepo repository.ItemStockRepository
}

// NewStockService construye el servicio con sus dependencias inyectadas.
func NewStockService(txRunner TxRunner, itemRepo repository.ItemStockRepository) *StockService {
	return &StockService{txRunner: txRunner, itemRepo: itemRepo}
}

// ConsumoInput entrada para un débito de stock.
type ConsumoInput struct {
	ItemID   string
	Cantidad decimal.Decimal
	Subtipo  string // manual, ajuste, merma, consumo; vacío = manual
	Motivo   string
	Operador string
}

// CreditoInput entrada para un crédito de stock. Si el item no existe y se
// trata de un producto de catálogo, se crea con contadores en cero antes de
// acreditar (alta perezosa en la primera producción).
type CreditoInput struct {
	ItemID   string
	Tipo     string // requerido solo para alta perezosa
	Nombre   string
	Unidad   string
	Cantidad decimal.Decimal
	Subtipo  string
	Motivo   string
	Operador string
}

// ResultadoMovimiento item actualizado + asiento generado por una primitiva.
type ResultadoMovimiento struct {
	Item       *entity.ItemStock
	Movimiento *entity.Movimiento
}

// Consumir debita cantidad del item: incrementa Consumido (nunca decrementa
// Adquirido) y escribe un asiento de salida. Falla con StockInsuficienteError
// sin mutar nada si el disponible no alcanza.
func (s *StockService) Consumir(ctx context.Context, in ConsumoInput) (*ResultadoMovimiento, error) {
	if err := validarConsumo(in); err != nil {
		return nil, err
	}
	var res *ResultadoMovimiento
	err := s.txRunner.Run(ctx, func(
		itemRepo repository.ItemStockRepository,
		movRepo repository.MovimientoRepository,
		invRepo repository.RegistroInventarioRepository,
	) error {
		item, mov, err := consumirEnTx(itemRepo, movRepo, invRepo, consumoTx{
			itemID:   in.ItemID,
			cantidad: in.Cantidad,
			subtipo:  in.Subtipo,
			motivo:   in.Motivo,
			operador: in.Operador,
			ahora:    time.Now(),
		})
		if err != nil {
			return err
		}
		res = &ResultadoMovimiento{Item: item, Movimiento: mov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Acreditar acredita cantidad al item: incrementa Adquirido y escribe un
// asiento de entrada. Nunca falla por límites de cantidad (los créditos son
// incondicionales), pero rechaza cantidad <= 0.
func (s *StockService) Acreditar(ctx context.Context, in CreditoInput) (*ResultadoMovimiento, error) {
	if err := validarCredito(in); err != nil {
		return nil, err
	}
	var res *ResultadoMovimiento
	err := s.txRunner.Run(ctx, func(
		itemRepo repository.ItemStockRepository,
		movRepo repository.MovimientoRepository,
		invRepo repository.RegistroInventarioRepository,
	) error {
		item, mov, err := acreditarEnTx(itemRepo, movRepo, invRepo, creditoTx{
			itemID:   in.ItemID,
			tipo:     in.Tipo,
			nombre:   in.Nombre,
			unidad:   in.Unidad,
			cantidad: in.Cantidad,
			subtipo:  in.Subtipo,
			motivo:   in.Motivo,
			operador: in.Operador,
			ahora:    time.Now(),
		})
		if err != nil {
			return err
		}
		res = &ResultadoMovimiento{Item: item, Movimiento: mov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func validarConsumo(in ConsumoInput) error {
	if in.ItemID == "" || in.Operador == "" || !in.Cantidad.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	switch in.Subtipo {
	case "", entity.SubtipoManual, entity.SubtipoAjuste, entity.SubtipoMerma, entity.SubtipoConsumo:
		return nil
	}
	return domain.ErrInvalidInput
}

func validarCredito(in CreditoInput) error {
	if in.ItemID == "" || in.Operador == "" || !in.Cantidad.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if in.Tipo != "" && !entity.TipoValido(in.Tipo) {
		return domain.ErrInvalidInput
	}
	switch in.Subtipo {
	case "", entity.SubtipoManual, entity.SubtipoAjuste, entity.SubtipoProduccion:
		return nil
	}
	return domain.ErrInvalidInput
}

// consumoTx parámetros internos del débito dentro de una transacción.
type consumoTx struct {
	itemID        string
	cantidad      decimal.Decimal
	subtipo       string
	motivo        string
	operador      string
	correlacionID *string
	ahora         time.Time
}

// consumirEnTx ejecuta el débito usando repositorios atados a la transacción del
// caller. Lo comparten StockService (tx propia) y ProduccionService (tx del evento).
func consumirEnTx(
	itemRepo repository.ItemStockRepository,
	movRepo repository.MovimientoRepository,
	invRepo repository.RegistroInventarioRepository,
	p consumoTx,
) (*entity.ItemStock, *entity.Movimiento, error) {
	// Bloquea la fila: el chequeo de disponible vale hasta el commit.
	item, err := itemRepo.GetForUpdate(p.itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil || !item.Activo {
		return nil, nil, domain.ErrNotFound
	}
	disponible := item.Disponible()
	if disponible.LessThan(p.cantidad) {
		return nil, nil, &domain.StockInsuficienteError{
			ItemNombre: item.Nombre,
			Disponible: disponible,
			Solicitado: p.cantidad,
		}
	}
	antes := item.Consumido
	item.Consumido = antes.Add(p.cantidad)
	item.UpdatedAt = p.ahora
	if err := itemRepo.Update(item); err != nil {
		return nil, nil, err
	}
	if err := espejarProducto(invRepo, item, p.ahora); err != nil {
		return nil, nil, err
	}
	subtipo := p.subtipo
	if subtipo == "" {
		subtipo = entity.SubtipoManual
	}
	mov := &entity.Movimiento{
		ID:              uuid.New().String(),
		ItemID:          item.ID,
		ItemTipo:        item.Tipo,
		Direccion:       entity.DireccionSalida,
		Subtipo:         subtipo,
		Cantidad:        p.cantidad,
		CantidadAntes:   antes,
		CantidadDespues: item.Consumido,
		Motivo:          p.motivo,
		Operador:        p.operador,
		CorrelacionID:   p.correlacionID,
		Fecha:           p.ahora,
		CreatedAt:       p.ahora,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, nil, err
	}
	return item, mov, nil
}

// creditoTx parámetros internos del crédito dentro de una transacción.
type creditoTx struct {
	itemID        string
	tipo          string
	nombre        string
	unidad        string
	cantidad      decimal.Decimal
	subtipo       string
	motivo        string
	operador      string
	correlacionID *string
	ahora         time.Time
}

// acreditarEnTx ejecuta el crédito usando repositorios atados a la transacción
// del caller. Crea el item con contadores en cero si no existe y hay datos de alta.
func acreditarEnTx(
	itemRepo repository.ItemStockRepository,
	movRepo repository.MovimientoRepository,
	invRepo repository.RegistroInventarioRepository,
	p creditoTx,
) (*entity.ItemStock, *entity.Movimiento, error) {
	item, err := itemRepo.GetForUpdate(p.itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		if p.tipo == "" || p.nombre == "" {
			return nil, nil, domain.ErrNotFound
		}
		item = &entity.ItemStock{
			ID:        p.itemID,
			Tipo:      p.tipo,
			Nombre:    p.nombre,
			Unidad:    p.unidad,
			Adquirido: decimal.Zero,
			Consumido: decimal.Zero,
			Activo:    true,
			CreatedAt: p.ahora,
			UpdatedAt: p.ahora,
		}
		if err := itemRepo.Create(item); err != nil {
			return nil, nil, err
		}
	}
	if !item.Activo {
		return nil, nil, domain.ErrNotFound
	}
	// El tipo declarado debe coincidir con el del item existente: acreditar una
	// receta como si fuera producto saltearía la regla de rendimiento × lotes.
	if p.tipo != "" && item.Tipo != p.tipo {
		return nil, nil, domain.ErrInvalidInput
	}
	antes := item.Adquirido
	item.Adquirido = antes.Add(p.cantidad)
	item.UpdatedAt = p.ahora
	if err := itemRepo.Update(item); err != nil {
		return nil, nil, err
	}
	if err := espejarProducto(invRepo, item, p.ahora); err != nil {
		return nil, nil, err
	}
	subtipo := p.subtipo
	if subtipo == "" {
		subtipo = entity.SubtipoManual
	}
	mov := &entity.Movimiento{
		ID:              uuid.New().String(),
		ItemID:          item.ID,
		ItemTipo:        item.Tipo,
		Direccion:       entity.DireccionEntrada,
		Subtipo:         subtipo,
		Cantidad:        p.cantidad,
		CantidadAntes:   antes,
		CantidadDespues: item.Adquirido,
		Motivo:          p.motivo,
		Operador:        p.operador,
		CorrelacionID:   p.correlacionID,
		Fecha:           p.ahora,
		CreatedAt:       p.ahora,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, nil, err
	}
	return item, mov, nil
}

// espejarProducto refleja el disponible de un item de tipo producto en
// registro_inventario (materializado por producto de catálogo). Para los demás
// tipos no hace nada.
func espejarProducto(invRepo repository.RegistroInventarioRepository, item *entity.ItemStock, ahora time.Time) error {
	if item.Tipo != entity.TipoProducto {
		return nil
	}
	return invRepo.Upsert(&entity.RegistroInventario{
		ProductoID: item.ID,
		Stock:      item.Disponible(),
		UpdatedAt:  ahora,
	})
}
