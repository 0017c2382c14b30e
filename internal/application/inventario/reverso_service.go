package inventario

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/internal/domain/repository"
	"github.com/jhoicas/produccion-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// ReversoService deshace movimientos ya registrados: un asiento suelto
// (RevertirMovimiento) o un evento de producción completo por su ID de
// correlación (RevertirEvento). Los asientos originales se conservan y quedan
// enlazados a su compensación vía revertido_por; un asiento ya revertido no
// vuelve a aparecer en las búsquedas del motor.
//
// Un item desactivado sigue siendo compensable: la baja lógica no bloquea la
// restauración del estado previo de un evento en el que participó.
type ReversoService struct {
	txRunner TxRunner
	movRepo  repository.MovimientoRepository
	log      *logger.Logger
}

// NewReversoService construye el motor de reversos.
func NewReversoService(txRunner TxRunner, movRepo repository.MovimientoRepository, log *logger.Logger) *ReversoService {
	return &ReversoService{txRunner: txRunner, movRepo: movRepo, log: log}
}

// ReversoEventoResult asientos de compensación generados por RevertirEvento.
type ReversoEventoResult struct {
	Compensaciones []*entity.Movimiento
}

// RevertirMovimiento deshace un asiento suelto (sin correlación). Solo se
// admiten entradas: una salida debe revertirse a través del evento que la
// originó. El contador se decrementa con piso en cero y se escribe una salida
// de compensación cuyo motivo referencia al original.
func (s *ReversoService) RevertirMovimiento(ctx context.Context, movimientoID, operador string) (*ResultadoMovimiento, error) {
	if movimientoID == "" || operador == "" {
		return nil, domain.ErrInvalidInput
	}
	original, err := s.movRepo.GetByID(movimientoID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, domain.ErrNotFound
	}
	if original.Revertido() || original.Direccion != entity.DireccionEntrada {
		return nil, domain.ErrNotReversible
	}
	if original.CorrelacionID != nil {
		// Forma parte de un evento: debe revertirse completo.
		return nil, domain.ErrNotReversible
	}

	ahora := time.Now()
	var res *ResultadoMovimiento
	err = s.txRunner.Run(ctx, func(
		itemRepo repository.ItemStockRepository,
		movRepo repository.MovimientoRepository,
		invRepo repository.RegistroInventarioRepository,
	) error {
		item, comp, err := compensarCredito(itemRepo, movRepo, invRepo, original, operador, ahora)
		if err != nil {
			return err
		}
		if err := movRepo.MarcarRevertido(original.ID, comp.ID); err != nil {
			return err
		}
		res = &ResultadoMovimiento{Item: item, Movimiento: comp}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("movimiento_id", original.ID).
		Str("operador", operador).
		Msg("movimiento revertido")
	return res, nil
}

// RevertirEvento deshace un evento de producción completo: localiza todos los
// asientos activos con ese ID de correlación, aplica el inverso de cada uno
// (créditos primero, luego débitos) y escribe las compensaciones, todo en una
// transacción. Cada item queda con el disponible exacto previo al evento.
func (s *ReversoService) RevertirEvento(ctx context.Context, correlacionID, operador string) (*ReversoEventoResult, error) {
	if correlacionID == "" || operador == "" {
		return nil, domain.ErrInvalidInput
	}
	movimientos, err := s.movRepo.ListActivosByCorrelacion(correlacionID)
	if err != nil {
		return nil, err
	}
	if len(movimientos) == 0 {
		return nil, domain.ErrNothingToReverse
	}

	// Créditos de salida primero, después débitos de insumos: si la salida ya
	// fue consumida por otro evento el clamp en cero evita el subdesborde.
	var creditos, debitos []*entity.Movimiento
	for _, m := range movimientos {
		if m.Direccion == entity.DireccionEntrada {
			creditos = append(creditos, m)
		} else {
			debitos = append(debitos, m)
		}
	}

	ahora := time.Now()
	res := &ReversoEventoResult{}
	err = s.txRunner.Run(ctx, func(
		itemRepo repository.ItemStockRepository,
		movRepo repository.MovimientoRepository,
		invRepo repository.RegistroInventarioRepository,
	) error {
		for _, original := range creditos {
			_, comp, err := compensarCredito(itemRepo, movRepo, invRepo, original, operador, ahora)
			if err != nil {
				return err
			}
			if err := movRepo.MarcarRevertido(original.ID, comp.ID); err != nil {
				return err
			}
			res.Compensaciones = append(res.Compensaciones, comp)
		}
		for _, original := range debitos {
			_, comp, err := compensarDebito(itemRepo, movRepo, invRepo, original, operador, ahora)
			if err != nil {
				return err
			}
			if err := movRepo.MarcarRevertido(original.ID, comp.ID); err != nil {
				return err
			}
			res.Compensaciones = append(res.Compensaciones, comp)
		}
		return nil
	})
	if err != nil {
		s.log.Warn().
			Str("correlacion_id", correlacionID).
			Err(err).
			Msg("reverso de evento abortado")
		return nil, err
	}

	s.log.Info().
		Str("correlacion_id", correlacionID).
		Int("asientos", len(movimientos)).
		Str("operador", operador).
		Msg("evento de producción revertido")
	return res, nil
}

// compensarCredito inverso de una entrada: decrementa Adquirido (piso en cero)
// y asienta una salida de compensación. Para productos, el decremento se refleja
// en registro_inventario.
func compensarCredito(
	itemRepo repository.ItemStockRepository,
	movRepo repository.MovimientoRepository,
	invRepo repository.RegistroInventarioRepository,
	original *entity.Movimiento,
	operador string,
	ahora time.Time,
) (*entity.ItemStock, *entity.Movimiento, error) {
	item, err := itemRepo.GetForUpdate(original.ItemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, domain.ErrNotFound
	}
	antes := item.Adquirido
	item.Adquirido = restarConPiso(antes, original.Cantidad)
	item.UpdatedAt = ahora
	if err := itemRepo.Update(item); err != nil {
		return nil, nil, err
	}
	if err := espejarProducto(invRepo, item, ahora); err != nil {
		return nil, nil, err
	}
	comp := movimientoCompensacion(original, item, entity.DireccionSalida, antes, item.Adquirido, operador, ahora)
	if err := movRepo.Create(comp); err != nil {
		return nil, nil, err
	}
	return item, comp, nil
}

// compensarDebito inverso de una salida: decrementa Consumido (piso en cero)
// para restaurar disponible, sin tocar nunca Adquirido; asienta una entrada de
// compensación.
func compensarDebito(
	itemRepo repository.ItemStockRepository,
	movRepo repository.MovimientoRepository,
	invRepo repository.RegistroInventarioRepository,
	original *entity.Movimiento,
	operador string,
	ahora time.Time,
) (*entity.ItemStock, *entity.Movimiento, error) {
	item, err := itemRepo.GetForUpdate(original.ItemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, domain.ErrNotFound
	}
	antes := item.Consumido
	item.Consumido = restarConPiso(antes, original.Cantidad)
	item.UpdatedAt = ahora
	if err := itemRepo.Update(item); err != nil {
		return nil, nil, err
	}
	if err := espejarProducto(invRepo, item, ahora); err != nil {
		return nil, nil, err
	}
	comp := movimientoCompensacion(original, item, entity.DireccionEntrada, antes, item.Consumido, operador, ahora)
	if err := movRepo.Create(comp); err != nil {
		return nil, nil, err
	}
	return item, comp, nil
}

// movimientoCompensacion arma el asiento de reverso. No lleva correlacion_id en
// columna (un reverso no debe ser a su vez localizable como evento activo); el
// ID del evento y del asiento original quedan en detalles y en el motivo.
func movimientoCompensacion(
	original *entity.Movimiento,
	item *entity.ItemStock,
	direccion string,
	antes, despues decimal.Decimal,
	operador string,
	ahora time.Time,
) *entity.Movimiento {
	motivo := fmt.Sprintf("Reverso de movimiento %s", original.ID)
	detalles := fmt.Sprintf(`{"movimiento_original":%q`, original.ID)
	if original.CorrelacionID != nil {
		motivo = fmt.Sprintf("Reverso de movimiento %s - ID: %s", original.ID, *original.CorrelacionID)
		detalles += fmt.Sprintf(`,"correlacion_id":%q`, *original.CorrelacionID)
	}
	detalles += "}"
	// Si hubo clamp en cero la cantidad aplicada es menor que la original; el
	// asiento registra el delta real para conservar la aritmética del libro.
	aplicada := antes.Sub(despues)
	if aplicada.IsNegative() {
		aplicada = aplicada.Neg()
	}
	return &entity.Movimiento{
		ID:              uuid.New().String(),
		ItemID:          item.ID,
		ItemTipo:        item.Tipo,
		Direccion:       direccion,
		Subtipo:         entity.SubtipoReverso,
		Cantidad:        aplicada,
		CantidadAntes:   antes,
		CantidadDespues: despues,
		Motivo:          motivo,
		Operador:        operador,
		Detalles:        []byte(detalles),
		Fecha:           ahora,
		CreatedAt:       ahora,
	}
}

// restarConPiso resta clampeando en cero para que un reverso jamás deje un
// contador negativo.
func restarConPiso(a, b decimal.Decimal) decimal.Decimal {
	r := a.Sub(b)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
