package inventario

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
	"github.com/jhoicas/produccion-api/pkg/logger"
)

func nuevoReversoService(env *entorno) *ReversoService {
	return NewReversoService(env.tx, env.movs, logger.Nop())
}

// producirDePrueba registra una producción real para luego revertirla.
func producirDePrueba(t *testing.T, env *entorno, recetas *memRecetaRepo) string {
	t.Helper()
	svc := nuevoProduccionService(env, recetas)
	res, err := svc.Producir(context.Background(), ProduccionInput{
		SalidaTipo: entity.TipoReceta,
		SalidaID:   "pan",
		Cantidad:   d("4"),
		Insumos: []InsumoProduccion{
			{ItemID: "harina", Cantidad: d("8")},
			{ItemID: "levadura", Cantidad: d("2")},
		},
		Operador: "op-1",
	})
	require.NoError(t, err)
	return res.CorrelacionID
}

// ──────────────────────────────────────────────────────────────────────────────
// RevertirEvento
// ──────────────────────────────────────────────────────────────────────────────

func TestRevertirEvento_RestauraDisponiblesExactos(t *testing.T) {
	env := nuevoEntorno()
	recetas := newMemRecetaRepo()
	sembrarReceta(t, recetas, env, "pan", "5")
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "100", "40")
	sembrarItem(t, env, "levadura", entity.TipoIngrediente, "10", "1")
	correlacionID := producirDePrueba(t, env, recetas)

	res, err := nuevoReversoService(env).RevertirEvento(context.Background(), correlacionID, "admin-1")
	require.NoError(t, err)
	require.Len(t, res.Compensaciones, 3, "una compensación por cada asiento del evento")

	// Cada item vuelve exactamente al disponible previo al evento.
	harina, _ := env.items.GetByID("harina")
	levadura, _ := env.items.GetByID("levadura")
	pan, _ := env.items.GetByID("pan")
	assert.True(t, harina.Disponible().Equal(d("60")))
	assert.True(t, harina.Consumido.Equal(d("40")), "el reverso decrementa consumido, no incrementa adquirido")
	assert.True(t, harina.Adquirido.Equal(d("100")))
	assert.True(t, levadura.Disponible().Equal(d("9")))
	assert.True(t, pan.Disponible().IsZero())

	// Los originales quedan enlazados a su compensación, no borrados.
	originales, err := env.movs.ListActivosByCorrelacion(correlacionID)
	require.NoError(t, err)
	assert.Empty(t, originales, "ningún asiento del evento debe seguir activo")
	for _, m := range env.movs.movs {
		if m.Subtipo == entity.SubtipoReverso {
			assert.Nil(t, m.CorrelacionID,
				"una compensación no debe ser localizable como evento activo")
			assert.Contains(t, string(m.Detalles), correlacionID,
				"el ID del evento queda en detalles para auditoría")
		} else {
			require.NotNil(t, m.RevertidoPor, "todo asiento original queda marcado")
		}
	}
}

func TestRevertirEvento_SegundoIntentoNoHaceNada(t *testing.T) {
	env := nuevoEntorno()
	recetas := newMemRecetaRepo()
	sembrarReceta(t, recetas, env, "pan", "5")
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "100", "0")
	sembrarItem(t, env, "levadura", entity.TipoIngrediente, "10", "0")
	correlacionID := producirDePrueba(t, env, recetas)
	svc := nuevoReversoService(env)

	_, err := svc.RevertirEvento(context.Background(), correlacionID, "admin-1")
	require.NoError(t, err)

	harinaAntes, _ := env.items.GetByID("harina")
	_, err = svc.RevertirEvento(context.Background(), correlacionID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrNothingToReverse, "el reverso es idempotente vía error explícito")

	harinaDespues, _ := env.items.GetByID("harina")
	assert.True(t, harinaDespues.Consumido.Equal(harinaAntes.Consumido),
		"el segundo intento no debe tocar contadores")
}

func TestRevertirEvento_CorrelacionDesconocida(t *testing.T) {
	env := nuevoEntorno()
	_, err := nuevoReversoService(env).RevertirEvento(context.Background(), uuid.New().String(), "admin-1")
	assert.ErrorIs(t, err, domain.ErrNothingToReverse)
}

func TestRevertirEvento_ClampeaEnCeroYAsientaElDeltaReal(t *testing.T) {
	env := nuevoEntorno()
	recetas := newMemRecetaRepo()
	sembrarReceta(t, recetas, env, "pan", "5")
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "100", "0")
	sembrarItem(t, env, "levadura", entity.TipoIngrediente, "10", "0")
	correlacionID := producirDePrueba(t, env, recetas) // acredita 20 de pan

	// Otro proceso consumió parte de la salida antes del reverso: al compensar
	// el crédito de 20 el contador no puede quedar negativo.
	pan, _ := env.items.GetByID("pan")
	pan.Adquirido = d("15")
	require.NoError(t, env.items.Update(pan))

	_, err := nuevoReversoService(env).RevertirEvento(context.Background(), correlacionID, "admin-1")
	require.NoError(t, err)

	pan, _ = env.items.GetByID("pan")
	assert.True(t, pan.Adquirido.IsZero(), "el contador clampea en cero")

	for _, m := range env.movs.porSubtipo(entity.SubtipoReverso) {
		if m.ItemID != "pan" {
			continue
		}
		assert.True(t, m.Cantidad.Equal(d("15")), "el asiento registra el delta realmente aplicado")
		assert.True(t, m.CantidadAntes.Sub(m.CantidadDespues).Equal(m.Cantidad))
	}
}

// Una sub-receta consumida como insumo de otro evento no es dueña de ese
// evento: revertir sus producciones propias no debe arrastrar la producción
// del padre.
func TestCorrelacionesActivasPorItem_SoloEventosDeSuSalida(t *testing.T) {
	env := nuevoEntorno()
	recetas := newMemRecetaRepo()
	sembrarReceta(t, recetas, env, "masa", "10")
	sembrarReceta(t, recetas, env, "pizza", "8")
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "100", "0")
	svc := nuevoProduccionService(env, recetas)

	// Evento 1: producir la sub-receta masa.
	res1, err := svc.Producir(context.Background(), ProduccionInput{
		SalidaTipo: entity.TipoReceta,
		SalidaID:   "masa",
		Cantidad:   d("1"),
		Insumos:    []InsumoProduccion{{ItemID: "harina", Cantidad: d("5")}},
		Operador:   "op-1",
	})
	require.NoError(t, err)

	// Evento 2: producir pizza consumiendo masa como insumo.
	_, err = svc.Producir(context.Background(), ProduccionInput{
		SalidaTipo: entity.TipoReceta,
		SalidaID:   "pizza",
		Cantidad:   d("1"),
		Insumos:    []InsumoProduccion{{ItemID: "masa", Cantidad: d("4")}},
		Operador:   "op-1",
	})
	require.NoError(t, err)

	correlaciones, err := env.movs.ListCorrelacionesActivasPorItem("masa")
	require.NoError(t, err)
	assert.Equal(t, []string{res1.CorrelacionID}, correlaciones,
		"masa solo es dueña de su propio evento, no del que la consumió")

	// Revertir lo que masa posee deja la producción de pizza intacta.
	for _, id := range correlaciones {
		_, err := nuevoReversoService(env).RevertirEvento(context.Background(), id, "admin-1")
		require.NoError(t, err)
	}
	pizza, _ := env.items.GetByID("pizza")
	assert.True(t, pizza.Disponible().Equal(d("8")))
}

func TestRevertirEvento_ItemDesactivadoSigueSiendoCompensable(t *testing.T) {
	env := nuevoEntorno()
	recetas := newMemRecetaRepo()
	sembrarReceta(t, recetas, env, "pan", "5")
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "100", "0")
	sembrarItem(t, env, "levadura", entity.TipoIngrediente, "10", "0")
	correlacionID := producirDePrueba(t, env, recetas)

	// Baja lógica de un insumo después del evento.
	require.NoError(t, NewItemsService(env.items).Desactivar("harina"))

	_, err := nuevoReversoService(env).RevertirEvento(context.Background(), correlacionID, "admin-1")
	require.NoError(t, err, "la baja lógica no bloquea la restauración del evento")

	harina, _ := env.items.GetByID("harina")
	assert.False(t, harina.Activo)
	assert.True(t, harina.Consumido.IsZero(), "el contador vuelve al estado previo al evento")
}

// ──────────────────────────────────────────────────────────────────────────────
// RevertirMovimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestRevertirMovimiento_EntradaManual(t *testing.T) {
	env := nuevoEntorno()
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "0", "0")
	stock := NewStockService(env.tx, env.items)
	credito, err := stock.Acreditar(context.Background(), CreditoInput{
		ItemID:   "harina",
		Cantidad: d("10"),
		Operador: "op-1",
	})
	require.NoError(t, err)

	res, err := nuevoReversoService(env).RevertirMovimiento(context.Background(), credito.Movimiento.ID, "admin-1")
	require.NoError(t, err)

	assert.True(t, res.Item.Adquirido.IsZero())
	assert.Equal(t, entity.SubtipoReverso, res.Movimiento.Subtipo)
	assert.Contains(t, res.Movimiento.Motivo, credito.Movimiento.ID)

	original, _ := env.movs.GetByID(credito.Movimiento.ID)
	require.NotNil(t, original.RevertidoPor)
	assert.Equal(t, res.Movimiento.ID, *original.RevertidoPor)

	// Un asiento ya revertido no admite segundo reverso.
	_, err = nuevoReversoService(env).RevertirMovimiento(context.Background(), credito.Movimiento.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrNotReversible)
}

func TestRevertirMovimiento_SalidaNoEsReversibleSuelta(t *testing.T) {
	env := nuevoEntorno()
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "10", "0")
	stock := NewStockService(env.tx, env.items)
	salida, err := stock.Consumir(context.Background(), ConsumoInput{
		ItemID:   "harina",
		Cantidad: d("2"),
		Operador: "op-1",
	})
	require.NoError(t, err)

	_, err = nuevoReversoService(env).RevertirMovimiento(context.Background(), salida.Movimiento.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrNotReversible)
}

func TestRevertirMovimiento_AsientoDeEventoExigeReversoCompleto(t *testing.T) {
	env := nuevoEntorno()
	recetas := newMemRecetaRepo()
	sembrarReceta(t, recetas, env, "pan", "5")
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "100", "0")
	sembrarItem(t, env, "levadura", entity.TipoIngrediente, "10", "0")
	correlacionID := producirDePrueba(t, env, recetas)

	movs, err := env.movs.ListActivosByCorrelacion(correlacionID)
	require.NoError(t, err)
	for _, m := range movs {
		if m.Direccion != entity.DireccionEntrada {
			continue
		}
		_, err := nuevoReversoService(env).RevertirMovimiento(context.Background(), m.ID, "admin-1")
		assert.ErrorIs(t, err, domain.ErrNotReversible,
			"una entrada de un evento solo se revierte con el evento completo")
	}
}

func TestRevertirMovimiento_Inexistente(t *testing.T) {
	env := nuevoEntorno()
	_, err := nuevoReversoService(env).RevertirMovimiento(context.Background(), "no-existe", "admin-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El ciclo producir → revertir → producir de nuevo debe dejar el mismo estado
// que una sola producción.
func TestReverso_RoundTripProducirRevertirProducir(t *testing.T) {
	env := nuevoEntorno()
	recetas := newMemRecetaRepo()
	sembrarReceta(t, recetas, env, "pan", "5")
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "100", "0")
	sembrarItem(t, env, "levadura", entity.TipoIngrediente, "10", "0")

	correlacionID := producirDePrueba(t, env, recetas)
	_, err := nuevoReversoService(env).RevertirEvento(context.Background(), correlacionID, "admin-1")
	require.NoError(t, err)
	producirDePrueba(t, env, recetas)

	harina, _ := env.items.GetByID("harina")
	pan, _ := env.items.GetByID("pan")
	assert.True(t, harina.Disponible().Equal(d("92")))
	assert.True(t, pan.Disponible().Equal(d("20")))

	// Dos producciones y un reverso: el libro conserva todo el historial.
	assert.Len(t, env.movs.movs, 9)
}
