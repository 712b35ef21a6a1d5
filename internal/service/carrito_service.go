package service

import (
	"context"
	"errors"
	"fmt"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrCarritoVacio is returned when a charge is attempted on an empty cart.
var ErrCarritoVacio = errors.New("el carrito esta vacio")

type CarritoService interface {
	Ver(ctx context.Context) (*dto.CarritoResponse, error)
	Agregar(ctx context.Context, productoID uuid.UUID) (*dto.CarritoResponse, error)
	Modificar(ctx context.Context, productoID uuid.UUID, req dto.ModificarItemRequest) (*dto.CarritoResponse, error)
	Quitar(ctx context.Context, productoID uuid.UUID) (*dto.CarritoResponse, error)
	Vaciar(ctx context.Context) error
}

type carritoService struct {
	motor          Motor
	carrito        CarritoStore
	maxPorProducto int
}

func NewCarritoService(motor Motor, carrito CarritoStore, maxPorProducto int) CarritoService {
	return &carritoService{motor: motor, carrito: carrito, maxPorProducto: maxPorProducto}
}

func (s *carritoService) Ver(ctx context.Context) (*dto.CarritoResponse, error) {
	items, err := s.carrito.Carrito(ctx)
	if err != nil {
		return nil, err
	}
	return carritoToResponse(items), nil
}

// Agregar adds one unit of the product. A repeated add increments the
// existing line instead of duplicating it.
func (s *carritoService) Agregar(ctx context.Context, productoID uuid.UUID) (*dto.CarritoResponse, error) {
	p, err := s.motor.ObtenerProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	if p.Stock <= 0 {
		return nil, fmt.Errorf("%s no tiene stock disponible", p.Nombre)
	}

	items, err := s.carrito.Carrito(ctx)
	if err != nil {
		return nil, err
	}
	idx := indiceItem(items, productoID)
	if idx >= 0 {
		if err := s.validarCantidad(items[idx].Cantidad+1, items[idx]); err != nil {
			return nil, err
		}
		items[idx].Cantidad++
	} else {
		items = append(items, model.ItemCarrito{
			ProductoID:     p.ID,
			Nombre:         p.Nombre,
			Precio:         p.Precio,
			StockRecordado: p.Stock,
			Cantidad:       1,
		})
	}
	if err := s.carrito.GuardarCarrito(ctx, items); err != nil {
		return nil, err
	}
	return carritoToResponse(items), nil
}

// Modificar applies either a relative accion (incrementar/decrementar) or an
// absolute cantidad to one line. Dropping to zero removes the line.
func (s *carritoService) Modificar(ctx context.Context, productoID uuid.UUID, req dto.ModificarItemRequest) (*dto.CarritoResponse, error) {
	items, err := s.carrito.Carrito(ctx)
	if err != nil {
		return nil, err
	}
	idx := indiceItem(items, productoID)
	if idx < 0 {
		return nil, errors.New("el producto no esta en el carrito")
	}

	nueva := items[idx].Cantidad
	switch {
	case req.Accion == "incrementar":
		nueva++
	case req.Accion == "decrementar":
		nueva--
	case req.Cantidad != nil:
		nueva = *req.Cantidad
	default:
		return nil, errors.New("se requiere una accion o una cantidad")
	}

	if nueva <= 0 {
		items = append(items[:idx], items[idx+1:]...)
	} else {
		if err := s.validarCantidad(nueva, items[idx]); err != nil {
			return nil, err
		}
		items[idx].Cantidad = nueva
	}
	if err := s.carrito.GuardarCarrito(ctx, items); err != nil {
		return nil, err
	}
	return carritoToResponse(items), nil
}

func (s *carritoService) Quitar(ctx context.Context, productoID uuid.UUID) (*dto.CarritoResponse, error) {
	items, err := s.carrito.Carrito(ctx)
	if err != nil {
		return nil, err
	}
	idx := indiceItem(items, productoID)
	if idx < 0 {
		return nil, errors.New("el producto no esta en el carrito")
	}
	items = append(items[:idx], items[idx+1:]...)
	if err := s.carrito.GuardarCarrito(ctx, items); err != nil {
		return nil, err
	}
	return carritoToResponse(items), nil
}

func (s *carritoService) Vaciar(ctx context.Context) error {
	return s.carrito.GuardarCarrito(ctx, nil)
}

// validarCantidad enforces the per-line cap: never above the stock recorded
// when the line entered the cart, never above the configured maximum.
func (s *carritoService) validarCantidad(cantidad int, item model.ItemCarrito) error {
	if cantidad > item.StockRecordado {
		return fmt.Errorf("solo hay %d unidades de %s", item.StockRecordado, item.Nombre)
	}
	if s.maxPorProducto > 0 && cantidad > s.maxPorProducto {
		return fmt.Errorf("maximo %d unidades por producto", s.maxPorProducto)
	}
	return nil
}

func indiceItem(items []model.ItemCarrito, productoID uuid.UUID) int {
	for i := range items {
		if items[i].ProductoID == productoID {
			return i
		}
	}
	return -1
}

func carritoToResponse(items []model.ItemCarrito) *dto.CarritoResponse {
	resp := &dto.CarritoResponse{Items: make([]dto.ItemCarritoResponse, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		sub := it.Subtotal()
		resp.Items = append(resp.Items, dto.ItemCarritoResponse{
			ProductoID:     it.ProductoID.String(),
			Nombre:         it.Nombre,
			Precio:         it.Precio,
			StockRecordado: it.StockRecordado,
			Cantidad:       it.Cantidad,
			Subtotal:       sub,
		})
		resp.Total = resp.Total.Add(sub)
	}
	return resp
}
