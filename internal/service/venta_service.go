package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const formatoFecha = "2006-01-02"

type VentaService interface {
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	VentasPorDia(ctx context.Context, desde, hasta string) (*dto.ReporteResponse, error)
}

type ventaService struct {
	motor   Motor
	carrito CarritoStore
}

func NewVentaService(motor Motor, carrito CarritoStore) VentaService {
	return &ventaService{motor: motor, carrito: carrito}
}

// RegistrarVenta charges the persisted cart as a direct POS sale: re-verify
// stock against the live catalog, decrement in one batch, append the sale and
// empty the cart. The cart survives a failure in any earlier step.
func (s *ventaService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	lineas, err := s.carrito.Carrito(ctx)
	if err != nil {
		return nil, err
	}
	if len(lineas) == 0 {
		return nil, ErrCarritoVacio
	}

	items := make(model.ItemsPedido, 0, len(lineas))
	total := decimal.Zero
	for _, l := range lineas {
		items = append(items, model.ItemPedido{
			ID:       l.ProductoID,
			Nombre:   l.Nombre,
			Cantidad: l.Cantidad,
			Precio:   l.Precio,
		})
		total = total.Add(l.Subtotal())
	}
	if err := VerificarStock(ctx, s.motor, items); err != nil {
		return nil, err
	}

	ajustes := make([]repository.AjusteStock, 0, len(items))
	for _, it := range items {
		ajustes = append(ajustes, repository.AjusteStock{ProductoID: it.ID, Cantidad: it.Cantidad})
	}
	if err := s.motor.DescontarStockLote(ctx, ajustes); err != nil {
		return nil, err
	}

	venta := &model.Venta{Total: total, MetodoPago: req.MetodoPago, Productos: items}
	if err := s.motor.CrearVenta(ctx, venta); err != nil {
		log.Error().Err(err).Msg("stock descontado pero la venta no se registro")
		return nil, err
	}

	if err := s.carrito.GuardarCarrito(ctx, nil); err != nil {
		log.Warn().Err(err).Msg("venta registrada pero el carrito no se vacio")
	}
	return ventaToResponse(venta), nil
}

// VentasPorDia aggregates sales per calendar day over the inclusive
// [desde, hasta] date range, most recent day first.
func (s *ventaService) VentasPorDia(ctx context.Context, desde, hasta string) (*dto.ReporteResponse, error) {
	d, err := time.Parse(formatoFecha, desde)
	if err != nil {
		return nil, fmt.Errorf("fecha desde invalida: %s", desde)
	}
	h, err := time.Parse(formatoFecha, hasta)
	if err != nil {
		return nil, fmt.Errorf("fecha hasta invalida: %s", hasta)
	}
	if h.Before(d) {
		return nil, fmt.Errorf("el rango %s..%s esta invertido", desde, hasta)
	}

	ventas, err := s.motor.VentasPorRango(ctx, d, h.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	porDia := make(map[string]*dto.ReporteDia)
	for i := range ventas {
		fecha := ventas[i].CreatedAt.Format(formatoFecha)
		dia, ok := porDia[fecha]
		if !ok {
			dia = &dto.ReporteDia{Fecha: fecha, Total: decimal.Zero}
			porDia[fecha] = dia
		}
		dia.Cantidad++
		dia.Total = dia.Total.Add(ventas[i].Total)
	}

	dias := make([]dto.ReporteDia, 0, len(porDia))
	for _, dia := range porDia {
		dias = append(dias, *dia)
	}
	sort.Slice(dias, func(i, j int) bool { return dias[i].Fecha > dias[j].Fecha })

	return &dto.ReporteResponse{Desde: desde, Hasta: hasta, Dias: dias}, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemPedidoRequest, 0, len(v.Productos))
	for _, it := range v.Productos {
		items = append(items, dto.ItemPedidoRequest{
			ID:       it.ID.String(),
			Nombre:   it.Nombre,
			Cantidad: it.Cantidad,
			Precio:   it.Precio,
		})
	}
	var pedidoID *string
	if v.PedidoID != nil {
		id := v.PedidoID.String()
		pedidoID = &id
	}
	return &dto.VentaResponse{
		ID:         v.ID.String(),
		PedidoID:   pedidoID,
		Total:      v.Total,
		MetodoPago: v.MetodoPago,
		Productos:  items,
		CreatedAt:  v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
