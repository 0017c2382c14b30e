package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/application/inventario"
)

// ProduccionHandler maneja el registro de producciones y su reverso por evento.
type ProduccionHandler struct {
	produccion *inventario.ProduccionService
	reversos   *inventario.ReversoService
}

// NewProduccionHandler construye el handler.
func NewProduccionHandler(produccion *inventario.ProduccionService, reversos *inventario.ReversoService) *ProduccionHandler {
	return &ProduccionHandler{produccion: produccion, reversos: reversos}
}

// Producir godoc
// @Summary      Registrar producción
// @Description  Debita los insumos y acredita la salida (receta o producto) en
//
//	una sola transacción; todos los asientos comparten un ID de correlación.
//	Para recetas, cantidad son lotes y se multiplica por el rendimiento.
//
// @Tags         produccion
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProduccionRequest  true  "salida_tipo, salida_id, cantidad, insumos"
// @Success      201   {object}  dto.ProduccionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/producciones [post]
func (h *ProduccionHandler) Producir(c *fiber.Ctx) error {
	var in dto.ProduccionRequest
	if !parseBody(c, &in) {
		return nil
	}
	insumos := make([]inventario.InsumoProduccion, 0, len(in.Insumos))
	for _, i := range in.Insumos {
		insumos = append(insumos, inventario.InsumoProduccion{ItemID: i.ItemID, Cantidad: i.Cantidad})
	}
	res, err := h.produccion.Producir(c.Context(), inventario.ProduccionInput{
		SalidaTipo:    in.SalidaTipo,
		SalidaID:      in.SalidaID,
		SalidaNombre:  in.SalidaNombre,
		SalidaUnidad:  in.SalidaUnidad,
		Cantidad:      in.Cantidad,
		Insumos:       insumos,
		Motivo:        in.Motivo,
		Operador:      GetUserID(c),
		CorrelacionID: in.CorrelacionID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProduccionResponse{
		Salida:        toItemResponse(res.Salida),
		Movimientos:   toMovimientoResponses(res.Movimientos),
		CorrelacionID: res.CorrelacionID,
	})
}

// RevertirEvento godoc
// @Summary      Revertir un evento de producción completo
// @Description  Compensa todos los asientos activos del ID de correlación y los
//
//	marca como revertidos. Los asientos originales se conservan.
//
// @Tags         produccion
// @Security     Bearer
// @Produce      json
// @Param        correlacion_id  path  string  true  "ID de correlación del evento"
// @Success      200  {object}  dto.ReversoEventoResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/producciones/{correlacion_id} [delete]
func (h *ProduccionHandler) RevertirEvento(c *fiber.Ctx) error {
	correlacionID := c.Params("correlacion_id")
	res, err := h.reversos.RevertirEvento(c.Context(), correlacionID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReversoEventoResponse{
		CorrelacionID:  correlacionID,
		Compensaciones: toMovimientoResponses(res.Compensaciones),
	})
}
