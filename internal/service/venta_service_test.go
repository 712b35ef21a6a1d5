package service

import (
	"context"
	"testing"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/sincro"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarVentaDesdeCarrito(t *testing.T) {
	motor := newStubMotor()
	p1 := motor.agregarProducto("Yerba Mate 1kg", "7791234567890", 4850, 10)
	p2 := motor.agregarProducto("Galletitas 400g", "7790040113204", 1790, 4)
	carrito := &stubCarrito{}
	carritoSvc := NewCarritoService(motor, carrito, 10)
	svc := NewVentaService(motor, carrito)
	ctx := context.Background()

	_, err := carritoSvc.Agregar(ctx, p1.ID)
	require.NoError(t, err)
	_, err = carritoSvc.Agregar(ctx, p1.ID)
	require.NoError(t, err)
	_, err = carritoSvc.Agregar(ctx, p2.ID)
	require.NoError(t, err)

	resp, err := svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{MetodoPago: model.PagoEfectivo})
	require.NoError(t, err)

	assert.Nil(t, resp.PedidoID)
	assert.True(t, resp.Total.Equal(decimalFrom(11490)))

	a1, _ := motor.ObtenerProducto(ctx, p1.ID)
	a2, _ := motor.ObtenerProducto(ctx, p2.ID)
	assert.Equal(t, 8, a1.Stock)
	assert.Equal(t, 3, a2.Stock)

	// The cart is emptied only after the sale lands.
	restante, err := carrito.Carrito(ctx)
	require.NoError(t, err)
	assert.Empty(t, restante)
}

func TestRegistrarVentaCarritoVacio(t *testing.T) {
	svc := NewVentaService(newStubMotor(), &stubCarrito{})
	_, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{MetodoPago: model.PagoEfectivo})
	assert.ErrorIs(t, err, ErrCarritoVacio)
}

func TestRegistrarVentaStockDrenadoConservaCarrito(t *testing.T) {
	motor := newStubMotor()
	p := motor.agregarProducto("Yerba Mate 1kg", "7791234567890", 4850, 2)
	carrito := &stubCarrito{}
	carritoSvc := NewCarritoService(motor, carrito, 10)
	svc := NewVentaService(motor, carrito)
	ctx := context.Background()

	_, err := carritoSvc.Agregar(ctx, p.ID)
	require.NoError(t, err)
	_, err = carritoSvc.Agregar(ctx, p.ID)
	require.NoError(t, err)

	// Stock drains after the cart was built.
	motor.productos[p.ID].Stock = 1

	_, err = svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{MetodoPago: model.PagoEfectivo})
	assert.ErrorContains(t, err, "stock insuficiente")

	restante, _ := carrito.Carrito(ctx)
	assert.Len(t, restante, 1)
	a, _ := motor.ObtenerProducto(ctx, p.ID)
	assert.Equal(t, 1, a.Stock)
}

func TestRegistrarVentaOffline(t *testing.T) {
	motor := newStubMotor()
	p := motor.agregarProducto("Yerba Mate 1kg", "7791234567890", 4850, 5)
	carrito := &stubCarrito{}
	carritoSvc := NewCarritoService(motor, carrito, 10)
	svc := NewVentaService(motor, carrito)
	ctx := context.Background()

	_, err := carritoSvc.Agregar(ctx, p.ID)
	require.NoError(t, err)
	motor.online = false

	_, err = svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{MetodoPago: model.PagoEfectivo})
	assert.ErrorIs(t, err, sincro.ErrNoDisponibleOffline)
}

func ventaEn(motor *stubMotor, fecha string, total float64) {
	t, _ := time.Parse("2006-01-02", fecha)
	motor.ventas = append(motor.ventas, &model.Venta{
		ID:         uuid.New(),
		CreatedAt:  t.Add(10 * time.Hour),
		Total:      decimalFrom(total),
		MetodoPago: model.PagoEfectivo,
	})
}

func TestVentasPorDiaAgrupaYOrdenaDescendente(t *testing.T) {
	motor := newStubMotor()
	ventaEn(motor, "2024-01-01", 100)
	ventaEn(motor, "2024-01-01", 50)
	ventaEn(motor, "2024-01-02", 30)
	svc := NewVentaService(motor, &stubCarrito{})

	resp, err := svc.VentasPorDia(context.Background(), "2024-01-01", "2024-01-02")
	require.NoError(t, err)
	require.Len(t, resp.Dias, 2)

	assert.Equal(t, "2024-01-02", resp.Dias[0].Fecha)
	assert.Equal(t, 1, resp.Dias[0].Cantidad)
	assert.True(t, resp.Dias[0].Total.Equal(decimalFrom(30)))

	assert.Equal(t, "2024-01-01", resp.Dias[1].Fecha)
	assert.Equal(t, 2, resp.Dias[1].Cantidad)
	assert.True(t, resp.Dias[1].Total.Equal(decimalFrom(150)))
}

func TestVentasPorDiaRangoInclusivo(t *testing.T) {
	motor := newStubMotor()
	ventaEn(motor, "2024-01-01", 100)
	ventaEn(motor, "2024-01-03", 200)
	svc := NewVentaService(motor, &stubCarrito{})

	resp, err := svc.VentasPorDia(context.Background(), "2024-01-02", "2024-01-03")
	require.NoError(t, err)
	require.Len(t, resp.Dias, 1)
	assert.Equal(t, "2024-01-03", resp.Dias[0].Fecha)
}

func TestVentasPorDiaFechasInvalidas(t *testing.T) {
	svc := NewVentaService(newStubMotor(), &stubCarrito{})

	_, err := svc.VentasPorDia(context.Background(), "01/01/2024", "2024-01-02")
	assert.ErrorContains(t, err, "fecha desde invalida")

	_, err = svc.VentasPorDia(context.Background(), "2024-01-05", "2024-01-02")
	assert.ErrorContains(t, err, "invertido")
}
