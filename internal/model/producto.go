package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog row in the remote store, mirrored locally while
// offline. The ID is server-assigned on online inserts; offline inserts get a
// locally generated UUID that becomes permanent once the pending queue is
// replayed.
type Producto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CodigoBarras string          `gorm:"uniqueIndex;not null" json:"codigo_barras"`
	Nombre       string          `gorm:"index;not null" json:"nombre"`
	Precio       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"precio"`
	Stock        int             `gorm:"not null;default:0" json:"stock"`
	ImagenURL    *string         `gorm:"column:imagen_url" json:"imagen_url"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (Producto) TableName() string { return "productos" }
