package service

import (
	"context"
	"testing"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"
	"tiendapos/internal/sincro"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pedidoValido(items ...dto.ItemPedidoRequest) dto.CrearPedidoRequest {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Precio.Mul(decimal.NewFromInt(int64(it.Cantidad))))
	}
	return dto.CrearPedidoRequest{
		Cliente:       "Maria Lopez",
		Productos:     items,
		Total:         total,
		MetodoPago:    model.PagoEfectivo,
		TiempoLlegada: "30 minutos",
	}
}

func itemReq(id uuid.UUID, nombre string, cantidad int, precio float64) dto.ItemPedidoRequest {
	return dto.ItemPedidoRequest{ID: id.String(), Nombre: nombre, Cantidad: cantidad, Precio: decimalFrom(precio)}
}

// ── ValidarPedido ─────────────────────────────────────────────────────────────

func TestValidarPedidoClienteCorto(t *testing.T) {
	req := pedidoValido(itemReq(uuid.New(), "Yerba", 1, 100))
	req.Cliente = " a "
	assert.ErrorContains(t, ValidarPedido(req), "al menos 2 caracteres")
}

func TestValidarPedidoSinProductos(t *testing.T) {
	req := pedidoValido()
	req.Total = decimalFrom(100)
	assert.ErrorContains(t, ValidarPedido(req), "al menos un producto")
}

func TestValidarPedidoItemInvalido(t *testing.T) {
	req := pedidoValido(itemReq(uuid.New(), "Yerba", 0, 100))
	assert.ErrorContains(t, ValidarPedido(req), "cantidad invalida")
}

func TestValidarPedidoSinTiempoLlegada(t *testing.T) {
	req := pedidoValido(itemReq(uuid.New(), "Yerba", 1, 100))
	req.TiempoLlegada = "  "
	assert.ErrorContains(t, ValidarPedido(req), "tiempo de llegada")
}

func TestValidarPedidoMetodoPagoInvalido(t *testing.T) {
	req := pedidoValido(itemReq(uuid.New(), "Yerba", 1, 100))
	req.MetodoPago = "bitcoin"
	assert.ErrorContains(t, ValidarPedido(req), "metodo de pago invalido")
}

func TestValidarPedidoTotalInconsistente(t *testing.T) {
	req := pedidoValido(itemReq(uuid.New(), "Yerba", 2, 100))
	req.Total = decimalFrom(150)
	assert.ErrorContains(t, ValidarPedido(req), "no coincide")
}

// The chain is fail-fast: with several defects present, the first check in
// sequence is the one reported.
func TestValidarPedidoReportaPrimerError(t *testing.T) {
	req := dto.CrearPedidoRequest{
		Cliente:    "x",
		MetodoPago: "bitcoin",
		Total:      decimal.Zero,
	}
	assert.ErrorContains(t, ValidarPedido(req), "al menos 2 caracteres")
}

// ── Crear / VerificarStock ────────────────────────────────────────────────────

func TestCrearPedidoVerificaStock(t *testing.T) {
	motor := newStubMotor()
	p := motor.agregarProducto("Yerba Mate 1kg", "7791234567890", 4850, 1)
	svc := NewPedidoService(motor)

	req := pedidoValido(itemReq(p.ID, p.Nombre, 3, 4850))
	_, err := svc.Crear(context.Background(), req)
	assert.ErrorContains(t, err, "stock insuficiente de Yerba Mate 1kg")
	assert.ErrorContains(t, err, "faltan 2 unidades")
}

func TestCrearPedidoQuedaPendiente(t *testing.T) {
	motor := newStubMotor()
	p := motor.agregarProducto("Yerba Mate 1kg", "7791234567890", 4850, 10)
	svc := NewPedidoService(motor)

	resp, err := svc.Crear(context.Background(), pedidoValido(itemReq(p.ID, p.Nombre, 2, 4850)))
	require.NoError(t, err)
	assert.Equal(t, model.EstadoPendiente, resp.Estado)
	// Stock is not touched until delivery is confirmed.
	actual, _ := motor.ObtenerProducto(context.Background(), p.ID)
	assert.Equal(t, 10, actual.Stock)
}

func TestCrearPedidoOfflineNoDisponible(t *testing.T) {
	motor := newStubMotor()
	p := motor.agregarProducto("Yerba Mate 1kg", "7791234567890", 4850, 10)
	motor.online = false
	svc := NewPedidoService(motor)

	_, err := svc.Crear(context.Background(), pedidoValido(itemReq(p.ID, p.Nombre, 1, 4850)))
	assert.ErrorIs(t, err, sincro.ErrNoDisponibleOffline)
}

// ── ConfirmarEntrega ──────────────────────────────────────────────────────────

func TestConfirmarEntregaDescuentaRegistraYCompleta(t *testing.T) {
	motor := newStubMotor()
	p := motor.agregarProducto("Yerba Mate 1kg", "7791234567890", 4850, 10)
	svc := NewPedidoService(motor)
	ctx := context.Background()

	creado, err := svc.Crear(ctx, pedidoValido(itemReq(p.ID, p.Nombre, 3, 4850)))
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	resp, err := svc.ConfirmarEntrega(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoCompletado, resp.Estado)

	actual, _ := motor.ObtenerProducto(ctx, p.ID)
	assert.Equal(t, 7, actual.Stock)

	require.Len(t, motor.ventas, 1)
	require.NotNil(t, motor.ventas[0].PedidoID)
	assert.Equal(t, id, *motor.ventas[0].PedidoID)
	assert.True(t, motor.ventas[0].Total.Equal(decimalFrom(14550)))
}

func TestConfirmarEntregaRechazaPedidoNoPendiente(t *testing.T) {
	motor := newStubMotor()
	p := motor.agregarProducto("Yerba Mate 1kg", "7791234567890", 4850, 10)
	svc := NewPedidoService(motor)
	ctx := context.Background()

	creado, err := svc.Crear(ctx, pedidoValido(itemReq(p.ID, p.Nombre, 1, 4850)))
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	require.NoError(t, svc.Cancelar(ctx, id))
	_, err = svc.ConfirmarEntrega(ctx, id)
	assert.ErrorIs(t, err, repository.ErrTransicionInvalida)

	// Nothing was decremented or recorded.
	actual, _ := motor.ObtenerProducto(ctx, p.ID)
	assert.Equal(t, 10, actual.Stock)
	assert.Empty(t, motor.ventas)
}

func TestConfirmarEntregaConStockInsuficiente(t *testing.T) {
	motor := newStubMotor()
	p := motor.agregarProducto("Yerba Mate 1kg", "7791234567890", 4850, 5)
	svc := NewPedidoService(motor)
	ctx := context.Background()

	creado, err := svc.Crear(ctx, pedidoValido(itemReq(p.ID, p.Nombre, 5, 4850)))
	require.NoError(t, err)

	// Stock drains between order placement and delivery.
	motor.productos[p.ID].Stock = 2

	_, err = svc.ConfirmarEntrega(ctx, uuid.MustParse(creado.ID))
	assert.ErrorContains(t, err, "stock insuficiente")
	assert.Empty(t, motor.ventas)
}
