//go:build integration

package mirror

// Mirror round-trips against a real Redis via testcontainers.
// Run with: go test -tags integration ./internal/mirror/... -v

import (
	"context"
	"testing"
	"time"

	"tiendapos/internal/infra"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(rdURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	return NewStore(rdb)
}

func unProducto(nombre string) model.Producto {
	return model.Producto{
		ID:           uuid.New(),
		CodigoBarras: uuid.NewString()[:13],
		Nombre:       nombre,
		Precio:       decimal.NewFromInt(1500),
		Stock:        10,
	}
}

func TestEspejoProductosRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	// Empty mirror reads as an empty catalog, not an error.
	vacio, err := s.Productos(ctx)
	require.NoError(t, err)
	assert.Empty(t, vacio)

	p1 := unProducto("Yerba Mate 1kg")
	p2 := unProducto("Galletitas 400g")
	require.NoError(t, s.GuardarProductos(ctx, []model.Producto{p1, p2}))

	leidos, err := s.Productos(ctx)
	require.NoError(t, err)
	require.Len(t, leidos, 2)

	// GuardarProducto replaces in place, never duplicates.
	p1.Stock = 3
	require.NoError(t, s.GuardarProducto(ctx, p1))
	leidos, err = s.Productos(ctx)
	require.NoError(t, err)
	require.Len(t, leidos, 2)
	for _, p := range leidos {
		if p.ID == p1.ID {
			assert.Equal(t, 3, p.Stock)
		}
	}

	require.NoError(t, s.QuitarProducto(ctx, p2.ID))
	leidos, err = s.Productos(ctx)
	require.NoError(t, err)
	require.Len(t, leidos, 1)
	assert.Equal(t, p1.ID, leidos[0].ID)
}

func TestColaPendienteConservaOrdenFIFO(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	for i, nombre := range []string{"primero", "segundo", "tercero"} {
		op := model.OpInsert
		if i > 0 {
			op = model.OpUpdate
		}
		require.NoError(t, s.EncolarCambio(ctx, model.CambioPendiente{
			Operacion:  op,
			Producto:   unProducto(nombre),
			EncoladoEn: time.Now(),
		}))
	}

	cambios, err := s.CambiosPendientes(ctx)
	require.NoError(t, err)
	require.Len(t, cambios, 3)
	assert.Equal(t, "primero", cambios[0].Producto.Nombre)
	assert.Equal(t, "tercero", cambios[2].Producto.Nombre)

	// RecortarCola drops only the snapshotted prefix: a change enqueued while
	// the first two were being processed stays at the tail, and a retained
	// failure goes back to the head.
	require.NoError(t, s.RecortarCola(ctx, 2, cambios[:1]))
	cambios, err = s.CambiosPendientes(ctx)
	require.NoError(t, err)
	require.Len(t, cambios, 2)
	assert.Equal(t, "primero", cambios[0].Producto.Nombre)
	assert.Equal(t, "tercero", cambios[1].Producto.Nombre)

	require.NoError(t, s.RecortarCola(ctx, 2, nil))
	cambios, err = s.CambiosPendientes(ctx)
	require.NoError(t, err)
	assert.Empty(t, cambios)
}

func TestCarritoYPreferenciasSobrevivenReinicio(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	items := []model.ItemCarrito{{
		ProductoID:     uuid.New(),
		Nombre:         "Yerba Mate 1kg",
		Precio:         decimal.NewFromInt(4850),
		StockRecordado: 10,
		Cantidad:       2,
	}}
	require.NoError(t, s.GuardarCarrito(ctx, items))
	require.NoError(t, s.GuardarTabActiva(ctx, "ventas"))

	leidos, err := s.Carrito(ctx)
	require.NoError(t, err)
	require.Len(t, leidos, 1)
	assert.Equal(t, 2, leidos[0].Cantidad)

	tab, err := s.TabActiva(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ventas", tab)
}

func TestUltimaSyncYSesionAdmin(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	// Without a recorded sync the zero time comes back.
	ts, err := s.UltimaSync(ctx)
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	ahora := time.Now().Truncate(time.Second)
	require.NoError(t, s.MarcarSync(ctx, ahora))
	ts, err = s.UltimaSync(ctx)
	require.NoError(t, err)
	assert.True(t, ts.Equal(ahora))

	require.NoError(t, s.GuardarSesionAdmin(ctx, time.Hour))
	activa, err := s.SesionAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, activa)

	require.NoError(t, s.BorrarSesionAdmin(ctx))
	activa, err = s.SesionAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, activa)
}
