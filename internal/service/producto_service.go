package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/sincro"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ProductoService interface {
	Listar(ctx context.Context) (*dto.ProductoListResponse, error)
	PorBarcode(ctx context.Context, codigo string) (*dto.ProductoResponse, error)
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	AjustarStock(ctx context.Context, id uuid.UUID, stock int) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	SubirImagen(ctx context.Context, id uuid.UUID, nombre, mimeType string, data []byte) (string, error)
}

type productoService struct {
	motor  Motor
	bucket Bucket
}

func NewProductoService(motor Motor, bucket Bucket) ProductoService {
	return &productoService{motor: motor, bucket: bucket}
}

func (s *productoService) Listar(ctx context.Context) (*dto.ProductoListResponse, error) {
	productos, err := s.motor.ListarProductos(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductoListResponse{Data: make([]dto.ProductoResponse, 0, len(productos)), Total: len(productos)}
	for i := range productos {
		resp.Data = append(resp.Data, *productoToResponse(&productos[i]))
	}
	return resp, nil
}

func (s *productoService) PorBarcode(ctx context.Context, codigo string) (*dto.ProductoResponse, error) {
	p, err := s.motor.ObtenerPorBarcode(ctx, codigo)
	if err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

// Crear enforces barcode uniqueness before the insert — the remote store has
// the unique index, but offline inserts only see the mirror.
func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	_, err := s.motor.ObtenerPorBarcode(ctx, req.CodigoBarras)
	if err == nil {
		return nil, fmt.Errorf("el codigo de barras %s ya esta registrado", req.CodigoBarras)
	}
	if !errors.Is(err, sincro.ErrNoEncontrado) {
		return nil, err
	}

	p := &model.Producto{
		CodigoBarras: req.CodigoBarras,
		Nombre:       req.Nombre,
		Precio:       req.Precio,
		Stock:        req.Stock,
		ImagenURL:    req.ImagenURL,
	}
	if err := s.motor.CrearProducto(ctx, p); err != nil {
		// Queued writes already mutated the mirror; the caller decides whether
		// to present that as a provisional success.
		return productoToResponse(p), err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.motor.ObtenerProducto(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CodigoBarras != nil && *req.CodigoBarras != p.CodigoBarras {
		if _, err := s.motor.ObtenerPorBarcode(ctx, *req.CodigoBarras); err == nil {
			return nil, fmt.Errorf("el codigo de barras %s ya esta registrado", *req.CodigoBarras)
		} else if !errors.Is(err, sincro.ErrNoEncontrado) {
			return nil, err
		}
		p.CodigoBarras = *req.CodigoBarras
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}
	if req.ImagenURL != nil {
		p.ImagenURL = req.ImagenURL
	}
	if err := s.motor.ActualizarProducto(ctx, p); err != nil {
		return productoToResponse(p), err
	}
	return productoToResponse(p), nil
}

// AjustarStock sets the absolute stock value. Negative values never reach
// here (validated at the boundary); decrements below zero are impossible.
func (s *productoService) AjustarStock(ctx context.Context, id uuid.UUID, stock int) (*dto.ProductoResponse, error) {
	if stock < 0 {
		return nil, errors.New("el stock no puede ser negativo")
	}
	p, err := s.motor.ObtenerProducto(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Stock = stock
	if err := s.motor.ActualizarProducto(ctx, p); err != nil {
		return productoToResponse(p), err
	}
	return productoToResponse(p), nil
}

// Eliminar removes the product and cascades to its stored image. The image
// delete is best-effort: an unreachable bucket must not block the catalog.
func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	p, err := s.motor.ObtenerProducto(ctx, id)
	if err != nil {
		return err
	}
	if p.ImagenURL != nil && *p.ImagenURL != "" {
		if err := s.bucket.Eliminar(ctx, *p.ImagenURL); err != nil {
			log.Warn().Err(err).Str("producto_id", id.String()).Msg("no se pudo eliminar la imagen")
		}
	}
	return s.motor.EliminarProducto(ctx, id)
}

// SubirImagen uploads the payload and stores the returned public URL on the
// product.
func (s *productoService) SubirImagen(ctx context.Context, id uuid.UUID, nombre, mimeType string, data []byte) (string, error) {
	p, err := s.motor.ObtenerProducto(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.bucket.Subir(ctx, nombre, mimeType, data)
	if err != nil {
		return "", err
	}
	p.ImagenURL = &url
	if err := s.motor.ActualizarProducto(ctx, p); err != nil {
		return url, err
	}
	return url, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:           p.ID.String(),
		CodigoBarras: p.CodigoBarras,
		Nombre:       p.Nombre,
		Precio:       p.Precio,
		Stock:        p.Stock,
		ImagenURL:    p.ImagenURL,
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
