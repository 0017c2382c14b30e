package inventario

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/produccion-api/internal/domain"
	"github.com/jhoicas/produccion-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sembrarItem(t *testing.T, env *entorno, id, tipo string, adquirido, consumido string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, env.items.Create(&entity.ItemStock{
		ID:        id,
		Tipo:      tipo,
		Nombre:    "Item " + id,
		Unidad:    "kg",
		Adquirido: d(adquirido),
		Consumido: d(consumido),
		Activo:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Acreditar
// ──────────────────────────────────────────────────────────────────────────────

func TestAcreditar_IncrementaAdquiridoYAsientaEntrada(t *testing.T) {
	env := nuevoEntorno()
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "10", "3")
	svc := NewStockService(env.tx, env.items)

	res, err := svc.Acreditar(context.Background(), CreditoInput{
		ItemID:   "harina",
		Cantidad: d("5"),
		Motivo:   "compra semanal",
		Operador: "op-1",
	})
	require.NoError(t, err)

	assert.True(t, res.Item.Adquirido.Equal(d("15")), "adquirido debe pasar de 10 a 15")
	assert.True(t, res.Item.Consumido.Equal(d("3")), "consumido no debe tocarse en un crédito")
	assert.True(t, res.Item.Disponible().Equal(d("12")))

	mov := res.Movimiento
	assert.Equal(t, entity.DireccionEntrada, mov.Direccion)
	assert.Equal(t, entity.SubtipoManual, mov.Subtipo, "subtipo vacío debe asentarse como manual")
	assert.True(t, mov.CantidadAntes.Equal(d("10")), "antes refleja el contador mutado (adquirido)")
	assert.True(t, mov.CantidadDespues.Equal(d("15")))
	assert.True(t, mov.CantidadDespues.Sub(mov.CantidadAntes).Equal(mov.Cantidad),
		"la aritmética del asiento debe cerrar: despues - antes = cantidad")
	assert.Nil(t, mov.CorrelacionID, "una entrada manual no pertenece a ningún evento")
}

func TestAcreditar_AltaPerezosaDeProducto(t *testing.T) {
	env := nuevoEntorno()
	svc := NewStockService(env.tx, env.items)

	res, err := svc.Acreditar(context.Background(), CreditoInput{
		ItemID:   "prod-1",
		Tipo:     entity.TipoProducto,
		Nombre:   "Café molido 500g",
		Unidad:   "unidad",
		Cantidad: d("20"),
		Operador: "op-1",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.TipoProducto, res.Item.Tipo)
	assert.True(t, res.Item.Adquirido.Equal(d("20")))
	assert.True(t, res.Item.Consumido.IsZero(), "el item nuevo nace con consumido en cero")

	// El disponible del producto se espeja en el registro de inventario.
	reg, err := env.registros.Get("prod-1")
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.True(t, reg.Stock.Equal(d("20")))
}

func TestAcreditar_ItemInexistenteSinDatosDeAlta(t *testing.T) {
	env := nuevoEntorno()
	svc := NewStockService(env.tx, env.items)

	_, err := svc.Acreditar(context.Background(), CreditoInput{
		ItemID:   "fantasma",
		Cantidad: d("5"),
		Operador: "op-1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAcreditar_TipoDeclaradoNoCoincideConElItem(t *testing.T) {
	env := nuevoEntorno()
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "5", "0")
	svc := NewStockService(env.tx, env.items)

	_, err := svc.Acreditar(context.Background(), CreditoInput{
		ItemID:   "harina",
		Tipo:     entity.TipoProducto,
		Nombre:   "Harina",
		Cantidad: d("3"),
		Operador: "op-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	harina, _ := env.items.GetByID("harina")
	assert.True(t, harina.Adquirido.Equal(d("5")), "el contador queda intacto")
}

func TestAcreditar_CantidadNoPositiva(t *testing.T) {
	env := nuevoEntorno()
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "10", "0")
	svc := NewStockService(env.tx, env.items)

	for _, cantidad := range []string{"0", "-3"} {
		_, err := svc.Acreditar(context.Background(), CreditoInput{
			ItemID:   "harina",
			Cantidad: d(cantidad),
			Operador: "op-1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %s debe rechazarse", cantidad)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumir
// ──────────────────────────────────────────────────────────────────────────────

func TestConsumir_IncrementaConsumidoYAsientaSalida(t *testing.T) {
	env := nuevoEntorno()
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "10", "3")
	svc := NewStockService(env.tx, env.items)

	res, err := svc.Consumir(context.Background(), ConsumoInput{
		ItemID:   "harina",
		Cantidad: d("4"),
		Subtipo:  entity.SubtipoAjuste,
		Motivo:   "ajuste por conteo",
		Operador: "op-1",
	})
	require.NoError(t, err)

	assert.True(t, res.Item.Adquirido.Equal(d("10")), "un débito jamás decrementa adquirido")
	assert.True(t, res.Item.Consumido.Equal(d("7")))
	assert.True(t, res.Item.Disponible().Equal(d("3")))

	mov := res.Movimiento
	assert.Equal(t, entity.DireccionSalida, mov.Direccion)
	assert.Equal(t, entity.SubtipoAjuste, mov.Subtipo)
	assert.True(t, mov.CantidadAntes.Equal(d("3")), "antes refleja el contador mutado (consumido)")
	assert.True(t, mov.CantidadDespues.Equal(d("7")))
}

func TestConsumir_StockInsuficienteNoMutaNada(t *testing.T) {
	env := nuevoEntorno()
	// disponible = 10 - 3 = 7; pedir 8 debe fallar.
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "10", "3")
	svc := NewStockService(env.tx, env.items)

	_, err := svc.Consumir(context.Background(), ConsumoInput{
		ItemID:   "harina",
		Cantidad: d("8"),
		Operador: "op-1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Disponible.Equal(d("7")))
	assert.True(t, stockErr.Solicitado.Equal(d("8")))

	item, _ := env.items.GetByID("harina")
	assert.True(t, item.Consumido.Equal(d("3")), "el contador no debe cambiar tras un fallo")
	assert.Empty(t, env.movs.movs, "no debe asentarse ningún movimiento")
}

func TestConsumir_DisponibleExactoPermitido(t *testing.T) {
	env := nuevoEntorno()
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "10", "3")
	svc := NewStockService(env.tx, env.items)

	res, err := svc.Consumir(context.Background(), ConsumoInput{
		ItemID:   "harina",
		Cantidad: d("7"),
		Operador: "op-1",
	})
	require.NoError(t, err)
	assert.True(t, res.Item.Disponible().IsZero(), "consumir el disponible exacto deja cero, nunca negativo")
}

func TestConsumir_ItemInactivoEsNotFound(t *testing.T) {
	env := nuevoEntorno()
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "10", "0")
	item, _ := env.items.GetByID("harina")
	item.Activo = false
	require.NoError(t, env.items.Update(item))

	svc := NewStockService(env.tx, env.items)
	_, err := svc.Consumir(context.Background(), ConsumoInput{
		ItemID:   "harina",
		Cantidad: d("1"),
		Operador: "op-1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConsumir_SubtipoInvalido(t *testing.T) {
	env := nuevoEntorno()
	sembrarItem(t, env, "harina", entity.TipoIngrediente, "10", "0")
	svc := NewStockService(env.tx, env.items)

	_, err := svc.Consumir(context.Background(), ConsumoInput{
		ItemID:   "harina",
		Cantidad: d("1"),
		Subtipo:  entity.SubtipoReverso, // reservado para el motor de reversos
		Operador: "op-1",
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
