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

// ProduccionService es el orquestador de producción: compone N débitos de
// insumos (ingredientes, materiales o sub-recetas) con un único crédito de
// salida (receta o producto de catálogo) bajo un mismo ID de correlación.
// Todo el pase de mutación corre dentro de una sola transacción: o se
// registran los N+1 asientos, o ninguno.
type ProduccionService struct {
	txRunner   TxRunner
	itemRepo   repository.ItemStockRepository
	recetaRepo repository.RecetaRepository
	log        *logger.Logger
}

// NewProduccionService construye el orquestador.
func NewProduccionService(
	txRunner TxRunner,
	itemRepo repository.ItemStockRepository,
	recetaRepo repository.RecetaRepository,
	log *logger.Logger,
) *ProduccionService {
	return &ProduccionService{txRunner: txRunner, itemRepo: itemRepo, recetaRepo: recetaRepo, log: log}
}

// InsumoProduccion un insumo a debitar: item + cantidad total requerida.
type InsumoProduccion struct {
	ItemID   string
	Cantidad decimal.Decimal
}

// ProduccionInput solicitud de producción.
//
// Para SalidaTipo receta, Cantidad son LOTES: la cantidad acreditada es
// lotes × rendimiento de la receta (el multiplicador se aplica una sola vez,
// nunca por insumo). Para producto, Cantidad se acredita tal cual y si el
// stock del producto no existe todavía se crea en el primer crédito
// (SalidaNombre/SalidaUnidad alimentan esa alta perezosa).
//
// Una solicitud sin insumos solo es válida como entrada manual de stock: se le
// asigna igual un ID de correlación (para poder revertirla por el mismo motor)
// y se omite el pase de débitos.
type ProduccionInput struct {
	SalidaTipo    string // receta | producto
	SalidaID      string
	SalidaNombre  string
	SalidaUnidad  string
	Cantidad      decimal.Decimal
	Insumos       []InsumoProduccion
	Motivo        string
	Operador      string
	CorrelacionID string // opcional; se genera uno si viene vacío
}

// ProduccionResult resultado de una producción registrada.
type ProduccionResult struct {
	Salida        *entity.ItemStock
	Movimientos   []*entity.Movimiento
	CorrelacionID string
}

// Producir ejecuta el evento de producción completo:
//  1. genera el ID de correlación si el caller no lo trae,
//  2. verifica disponibilidad de TODOS los insumos y junta todos los faltantes
//     (no se corta en el primero) antes de mutar nada,
//  3. debita cada insumo en el orden dado y acredita la salida, todo dentro de
//     una transacción; los N+1 asientos comparten el ID de correlación.
func (s *ProduccionService) Producir(ctx context.Context, in ProduccionInput) (*ProduccionResult, error) {
	if err := s.validar(in); err != nil {
		return nil, err
	}
	correlacionID := in.CorrelacionID
	if correlacionID == "" {
		correlacionID = uuid.New().String()
	}

	cantidadSalida, receta, err := s.cantidadSalida(in)
	if err != nil {
		return nil, err
	}

	// Verificación previa: junta todos los faltantes sin mutar nada. Bajo
	// concurrencia esto puede quedar desactualizado; el débito dentro de la
	// transacción re-verifica con la fila bloqueada.
	if err := s.verificarDisponibilidad(in.Insumos); err != nil {
		return nil, err
	}

	ahora := time.Now()
	motivo := in.Motivo
	if motivo == "" && receta != nil {
		motivo = "Producción de " + receta.Nombre
	}
	// El ID viaja también en el motivo para lectura humana; la búsqueda del
	// motor de reversos usa la columna correlacion_id.
	motivo = fmt.Sprintf("%s - ID: %s", motivo, correlacionID)

	res := &ProduccionResult{CorrelacionID: correlacionID}
	err = s.txRunner.Run(ctx, func(
		itemRepo repository.ItemStockRepository,
		movRepo repository.MovimientoRepository,
		invRepo repository.RegistroInventarioRepository,
	) error {
		for idx, insumo := range in.Insumos {
			_, mov, err := consumirEnTx(itemRepo, movRepo, invRepo, consumoTx{
				itemID:        insumo.ItemID,
				cantidad:      insumo.Cantidad,
				subtipo:       entity.SubtipoConsumo,
				motivo:        motivo,
				operador:      in.Operador,
				correlacionID: &correlacionID,
				ahora:         ahora,
			})
			if err != nil {
				// La transacción deshace los débitos ya aplicados; se deja
				// registro del punto de falla para conciliación manual.
				s.log.Warn().
					Str("correlacion_id", correlacionID).
					Str("item_id", insumo.ItemID).
					Int("debitos_aplicados", idx).
					Err(err).
					Msg("producción abortada durante el pase de débitos")
				return err
			}
			res.Movimientos = append(res.Movimientos, mov)
		}

		salida, mov, err := acreditarEnTx(itemRepo, movRepo, invRepo, creditoTx{
			itemID:        in.SalidaID,
			tipo:          in.SalidaTipo,
			nombre:        s.nombreSalida(in, receta),
			unidad:        s.unidadSalida(in, receta),
			cantidad:      cantidadSalida,
			subtipo:       s.subtipoSalida(in),
			motivo:        motivo,
			operador:      in.Operador,
			correlacionID: &correlacionID,
			ahora:         ahora,
		})
		if err != nil {
			s.log.Warn().
				Str("correlacion_id", correlacionID).
				Int("debitos_aplicados", len(in.Insumos)).
				Err(err).
				Msg("producción abortada durante el crédito de salida")
			return err
		}
		res.Salida = salida
		res.Movimientos = append(res.Movimientos, mov)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("correlacion_id", correlacionID).
		Str("salida_id", in.SalidaID).
		Str("salida_tipo", in.SalidaTipo).
		Int("insumos", len(in.Insumos)).
		Str("operador", in.Operador).
		Msg("producción registrada")
	return res, nil
}

func (s *ProduccionService) validar(in ProduccionInput) error {
	if in.SalidaID == "" || in.Operador == "" || !in.Cantidad.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if in.SalidaTipo != entity.TipoReceta && in.SalidaTipo != entity.TipoProducto {
		return domain.ErrInvalidInput
	}
	for _, insumo := range in.Insumos {
		if insumo.ItemID == "" || !insumo.Cantidad.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// cantidadSalida resuelve la cantidad a acreditar. Para recetas carga la receta
// y aplica rendimiento × lotes (una sola vez).
func (s *ProduccionService) cantidadSalida(in ProduccionInput) (decimal.Decimal, *entity.Receta, error) {
	if in.SalidaTipo != entity.TipoReceta {
		return in.Cantidad, nil, nil
	}
	receta, err := s.recetaRepo.GetByID(in.SalidaID)
	if err != nil {
		return decimal.Zero, nil, err
	}
	if receta == nil || !receta.Activo {
		return decimal.Zero, nil, domain.ErrNotFound
	}
	return in.Cantidad.Mul(receta.Rendimiento), receta, nil
}

func (s *ProduccionService) verificarDisponibilidad(insumos []InsumoProduccion) error {
	var faltantes []domain.Faltante
	for _, insumo := range insumos {
		item, err := s.itemRepo.GetByID(insumo.ItemID)
		if err != nil {
			return err
		}
		if item == nil || !item.Activo {
			return domain.ErrNotFound
		}
		if disponible := item.Disponible(); disponible.LessThan(insumo.Cantidad) {
			faltantes = append(faltantes, domain.Faltante{
				ItemID:     item.ID,
				ItemNombre: item.Nombre,
				Disponible: disponible,
				Solicitado: insumo.Cantidad,
			})
		}
	}
	if len(faltantes) > 0 {
		return &domain.InventarioInsuficienteError{Faltantes: faltantes}
	}
	return nil
}

func (s *ProduccionService) nombreSalida(in ProduccionInput, receta *entity.Receta) string {
	if receta != nil {
		return receta.Nombre
	}
	return in.SalidaNombre
}

func (s *ProduccionService) unidadSalida(in ProduccionInput, receta *entity.Receta) string {
	if receta != nil {
		return receta.UnidadRinde
	}
	return in.SalidaUnidad
}

// subtipoSalida una solicitud sin insumos no es una producción real: se asienta
// como entrada manual.
func (s *ProduccionService) subtipoSalida(in ProduccionInput) string {
	if len(in.Insumos) == 0 {
		return entity.SubtipoManual
	}
	return entity.SubtipoProduccion
}
