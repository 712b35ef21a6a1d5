package repository

import (
	"context"
	"time"

	"tiendapos/internal/model"

	"gorm.io/gorm"
)

// VentaRepository defines remote-store access for sale records. Sales are
// append-only: there is no update or delete.
type VentaRepository interface {
	Crear(ctx context.Context, v *model.Venta) error
	// PorRango returns sales with created_at in [desde, hasta), oldest first.
	PorRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) Crear(ctx context.Context, v *model.Venta) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) PorRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	// Half-open range keeps the created_at index usable — no DATE() wrapper.
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", desde, hasta).
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}
