package repository

import (
	"context"
	"errors"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTransicionInvalida is returned when an estado update does not match a
// pedido in the expected prior state (the one-way state machine guard).
var ErrTransicionInvalida = errors.New("transicion de estado invalida")

// PedidoRepository defines remote-store access for orders.
type PedidoRepository interface {
	Crear(ctx context.Context, p *model.Pedido) error
	PorID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	Listar(ctx context.Context, estado string) ([]model.Pedido, error)
	// ActualizarEstado moves a pedido out of pendiente. The WHERE guard makes
	// the transition one-way: completed/cancelled orders never change again.
	ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) error
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) Crear(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) PorID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pedidoRepo) Listar(ctx context.Context, estado string) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	err := q.Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) error {
	res := r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("id = ? AND estado = ?", id, model.EstadoPendiente).
		Update("estado", estado)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTransicionInvalida
	}
	return nil
}
