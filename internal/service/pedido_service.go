package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type PedidoService interface {
	Crear(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, estado string) (*dto.PedidoListResponse, error)
	Cancelar(ctx context.Context, id uuid.UUID) error
	ConfirmarEntrega(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
}

type pedidoService struct {
	motor Motor
}

func NewPedidoService(motor Motor) PedidoService {
	return &pedidoService{motor: motor}
}

// ValidarPedido runs the fail-fast validation chain over an incoming order.
// Checks run in a fixed sequence and the first failure wins: cliente,
// productos, tiempo de llegada, metodo de pago, total positivo, total
// consistente con los items.
func ValidarPedido(req dto.CrearPedidoRequest) error {
	if len(strings.TrimSpace(req.Cliente)) < 2 {
		return errors.New("el nombre del cliente debe tener al menos 2 caracteres")
	}
	if len(req.Productos) == 0 {
		return errors.New("el pedido debe incluir al menos un producto")
	}
	for _, item := range req.Productos {
		it, err := itemDesdeRequest(item)
		if err != nil {
			return err
		}
		if err := it.Validar(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(req.TiempoLlegada) == "" {
		return errors.New("el tiempo de llegada es obligatorio")
	}
	if req.MetodoPago != model.PagoTransferencia && req.MetodoPago != model.PagoEfectivo {
		return fmt.Errorf("metodo de pago invalido: %s", req.MetodoPago)
	}
	if !req.Total.GreaterThan(decimal.Zero) {
		return errors.New("el total debe ser mayor a cero")
	}
	suma := decimal.Zero
	for _, item := range req.Productos {
		suma = suma.Add(item.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad))))
	}
	if !suma.Equal(req.Total) {
		return fmt.Errorf("el total %s no coincide con la suma de los items %s", req.Total, suma)
	}
	return nil
}

// VerificarStock checks every line against current stock, fail-fast: the
// first shortfall aborts with the product name and the missing amount.
func VerificarStock(ctx context.Context, motor Motor, items []model.ItemPedido) error {
	for _, item := range items {
		p, err := motor.ObtenerProducto(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("producto %s: %w", item.Nombre, err)
		}
		if p.Stock < item.Cantidad {
			return fmt.Errorf("stock insuficiente de %s: faltan %d unidades", p.Nombre, item.Cantidad-p.Stock)
		}
	}
	return nil
}

func (s *pedidoService) Crear(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	if err := ValidarPedido(req); err != nil {
		return nil, err
	}
	items := make(model.ItemsPedido, 0, len(req.Productos))
	for _, ir := range req.Productos {
		it, err := itemDesdeRequest(ir)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := VerificarStock(ctx, s.motor, items); err != nil {
		return nil, err
	}
	pedido := &model.Pedido{
		Cliente:       strings.TrimSpace(req.Cliente),
		Productos:     items,
		Total:         req.Total,
		MetodoPago:    req.MetodoPago,
		TiempoLlegada: req.TiempoLlegada,
		Estado:        model.EstadoPendiente,
	}
	if err := s.motor.CrearPedido(ctx, pedido); err != nil {
		return nil, err
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	p, err := s.motor.ObtenerPedido(ctx, id)
	if err != nil {
		return nil, err
	}
	return pedidoToResponse(p), nil
}

func (s *pedidoService) Listar(ctx context.Context, estado string) (*dto.PedidoListResponse, error) {
	pedidos, err := s.motor.ListarPedidos(ctx, estado)
	if err != nil {
		return nil, err
	}
	resp := &dto.PedidoListResponse{Data: make([]dto.PedidoResponse, 0, len(pedidos)), Total: len(pedidos)}
	for i := range pedidos {
		resp.Data = append(resp.Data, *pedidoToResponse(&pedidos[i]))
	}
	return resp, nil
}

func (s *pedidoService) Cancelar(ctx context.Context, id uuid.UUID) error {
	return s.motor.ActualizarEstadoPedido(ctx, id, model.EstadoCancelado)
}

// ConfirmarEntrega fulfills a pending order in three sequential steps:
// decrement stock, record the sale, mark the order completado. The sequence
// is deliberately not atomic; a failure between steps is logged and surfaced,
// never rolled back.
func (s *pedidoService) ConfirmarEntrega(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.motor.ObtenerPedido(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pedido.PuedeTransicionarA(model.EstadoCompletado) {
		return nil, repository.ErrTransicionInvalida
	}
	if err := VerificarStock(ctx, s.motor, pedido.Productos); err != nil {
		return nil, err
	}

	ajustes := make([]repository.AjusteStock, 0, len(pedido.Productos))
	for _, item := range pedido.Productos {
		ajustes = append(ajustes, repository.AjusteStock{ProductoID: item.ID, Cantidad: item.Cantidad})
	}
	if err := s.motor.DescontarStockLote(ctx, ajustes); err != nil {
		return nil, err
	}

	venta := &model.Venta{
		PedidoID:   &pedido.ID,
		Total:      pedido.Total,
		MetodoPago: pedido.MetodoPago,
		Productos:  pedido.Productos,
	}
	if err := s.motor.CrearVenta(ctx, venta); err != nil {
		log.Error().Err(err).Str("pedido_id", id.String()).
			Msg("stock descontado pero la venta no se registro")
		return nil, err
	}

	if err := s.motor.ActualizarEstadoPedido(ctx, id, model.EstadoCompletado); err != nil {
		log.Error().Err(err).Str("pedido_id", id.String()).
			Msg("venta registrada pero el pedido quedo pendiente")
		return nil, err
	}
	pedido.Estado = model.EstadoCompletado
	return pedidoToResponse(pedido), nil
}

func itemDesdeRequest(ir dto.ItemPedidoRequest) (model.ItemPedido, error) {
	id, err := uuid.Parse(ir.ID)
	if err != nil {
		return model.ItemPedido{}, fmt.Errorf("item %q con id invalido", ir.Nombre)
	}
	return model.ItemPedido{ID: id, Nombre: ir.Nombre, Cantidad: ir.Cantidad, Precio: ir.Precio}, nil
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	items := make([]dto.ItemPedidoRequest, 0, len(p.Productos))
	for _, it := range p.Productos {
		items = append(items, dto.ItemPedidoRequest{
			ID:       it.ID.String(),
			Nombre:   it.Nombre,
			Cantidad: it.Cantidad,
			Precio:   it.Precio,
		})
	}
	return &dto.PedidoResponse{
		ID:            p.ID.String(),
		Cliente:       p.Cliente,
		Productos:     items,
		Total:         p.Total,
		MetodoPago:    p.MetodoPago,
		TiempoLlegada: p.TiempoLlegada,
		Estado:        p.Estado,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
