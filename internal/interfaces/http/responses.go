package http

import (
	"github.com/jhoicas/produccion-api/internal/application/dto"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

func toItemResponse(item *entity.ItemStock) dto.ItemStockResponse {
	return dto.ItemStockResponse{
		ID:         item.ID,
		Tipo:       item.Tipo,
		Nombre:     item.Nombre,
		Unidad:     item.Unidad,
		Adquirido:  item.Adquirido,
		Consumido:  item.Consumido,
		Disponible: item.Disponible(),
		Activo:     item.Activo,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func toMovimientoResponse(m *entity.Movimiento) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:              m.ID,
		ItemID:          m.ItemID,
		ItemTipo:        m.ItemTipo,
		Direccion:       m.Direccion,
		Subtipo:         m.Subtipo,
		Cantidad:        m.Cantidad,
		CantidadAntes:   m.CantidadAntes,
		CantidadDespues: m.CantidadDespues,
		Motivo:          m.Motivo,
		Operador:        m.Operador,
		CorrelacionID:   m.CorrelacionID,
		RevertidoPor:    m.RevertidoPor,
		Detalles:        m.Detalles,
		Fecha:           m.Fecha,
	}
}

func toMovimientoResponses(movs []*entity.Movimiento) []dto.MovimientoResponse {
	out := make([]dto.MovimientoResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovimientoResponse(m))
	}
	return out
}

// toRecetaResponse arma la respuesta de receta. El stock de salida (producido,
// utilizado, disponible) viene del ItemStock gemelo; puede ser nil si la receta
// nunca produjo.
func toRecetaResponse(r *entity.Receta, stock *entity.ItemStock) dto.RecetaResponse {
	ingredientes := make([]dto.IngredienteRecetaDTO, 0, len(r.Ingredientes))
	for _, ing := range r.Ingredientes {
		ingredientes = append(ingredientes, dto.IngredienteRecetaDTO{
			IngredienteID: ing.IngredienteID,
			Nombre:        ing.Nombre,
			Cantidad:      ing.Cantidad,
			Unidad:        ing.Unidad,
		})
	}
	historial := make([]dto.FaseHistorialDTO, 0, len(r.Historial))
	for _, h := range r.Historial {
		historial = append(historial, dto.FaseHistorialDTO{
			Fase:   h.Fase,
			Inicio: h.Inicio,
			Fin:    h.Fin,
			Notas:  h.Notas,
		})
	}
	out := dto.RecetaResponse{
		ID:           r.ID,
		Nombre:       r.Nombre,
		Descripcion:  r.Descripcion,
		Ingredientes: ingredientes,
		Rendimiento:  r.Rendimiento,
		UnidadRinde:  r.UnidadRinde,
		Estado:       r.Estado,
		FaseActual:   r.FaseActual,
		Historial:    historial,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if stock != nil {
		out.Producido = stock.Adquirido
		out.Utilizado = stock.Consumido
		out.Disponible = stock.Disponible()
	}
	return out
}
