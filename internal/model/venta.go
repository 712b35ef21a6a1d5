package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is an append-only sale record: never mutated or deleted after
// creation. PedidoID is nil for direct POS sales.
type Venta struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	PedidoID   *uuid.UUID      `gorm:"type:uuid;index;constraint:OnDelete:SET NULL" json:"pedido_id"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	MetodoPago string          `gorm:"type:varchar(20);not null" json:"metodo_pago"`
	Productos  ItemsPedido     `gorm:"type:jsonb;not null" json:"productos"`

	Pedido *Pedido `gorm:"foreignKey:PedidoID" json:"-"`
}

// TableName overrides GORM's default pluralization (ventas → ventas_diarias).
func (Venta) TableName() string { return "ventas_diarias" }
