package repository

import (
	"context"
	"fmt"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AjusteStock is one line of a multi-item stock decrement.
type AjusteStock struct {
	ProductoID uuid.UUID
	Cantidad   int // units to subtract
}

// ProductoRepository defines remote-store access for products.
// The sync engine depends on this interface, not on the concrete GORM
// implementation, enabling unit testing via in-memory stubs.
type ProductoRepository interface {
	Listar(ctx context.Context) ([]model.Producto, error)
	PorID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	PorBarcode(ctx context.Context, codigo string) (*model.Producto, error)
	Crear(ctx context.Context, p *model.Producto) error
	Actualizar(ctx context.Context, p *model.Producto) error
	Eliminar(ctx context.Context, id uuid.UUID) error
	// DescontarLote subtracts stock for every line in one remote call.
	DescontarLote(ctx context.Context, ajustes []AjusteStock) error
	// Ping is the trivial probe query used for online/offline detection.
	Ping(ctx context.Context) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Listar(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) PorID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) PorBarcode(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo_barras = ?", codigo).First(&p).Error
	return &p, err
}

func (r *productoRepo) Crear(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) Actualizar(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) Eliminar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Producto{}, "id = ?", id).Error
}

func (r *productoRepo) DescontarLote(ctx context.Context, ajustes []AjusteStock) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range ajustes {
			res := tx.Model(&model.Producto{}).
				Where("id = ? AND stock >= ?", a.ProductoID, a.Cantidad).
				Update("stock", gorm.Expr("stock - ?", a.Cantidad))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("stock insuficiente para producto %s", a.ProductoID)
			}
		}
		return nil
	})
}

func (r *productoRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
