package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de un pedido. Transitions are one-way: pendiente is initial,
// completado and cancelado are terminal.
const (
	EstadoPendiente  = "pendiente"
	EstadoCompletado = "completado"
	EstadoCancelado  = "cancelado"
)

// Métodos de pago aceptados por el catálogo público.
const (
	PagoTransferencia = "transferencia"
	PagoEfectivo      = "efectivo"
)

// ItemPedido is the denormalized line-item snapshot stored inside pedidos and
// ventas_diarias as JSON. All four fields are required.
type ItemPedido struct {
	ID       uuid.UUID       `json:"id"`
	Nombre   string          `json:"nombre"`
	Cantidad int             `json:"cantidad"`
	Precio   decimal.Decimal `json:"precio"`
}

// Validar checks the required fields on every boundary crossing
// (deserialization from storage or network).
func (i ItemPedido) Validar() error {
	if i.ID == uuid.Nil {
		return errors.New("item sin id de producto")
	}
	if i.Nombre == "" {
		return errors.New("item sin nombre")
	}
	if i.Cantidad <= 0 {
		return fmt.Errorf("item %q con cantidad invalida", i.Nombre)
	}
	if i.Precio.LessThan(decimal.Zero) {
		return fmt.Errorf("item %q con precio negativo", i.Nombre)
	}
	return nil
}

// ItemsPedido maps the JSON `productos` column to a typed slice.
type ItemsPedido []ItemPedido

func (it ItemsPedido) Value() (driver.Value, error) {
	return json.Marshal(it)
}

func (it *ItemsPedido) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("items pedido: tipo de columna inesperado %T", src)
	}
	if err := json.Unmarshal(data, it); err != nil {
		return err
	}
	for _, item := range *it {
		if err := item.Validar(); err != nil {
			return fmt.Errorf("items pedido: %w", err)
		}
	}
	return nil
}

// Subtotal returns cantidad × precio for the line.
func (i ItemPedido) Subtotal() decimal.Decimal {
	return i.Precio.Mul(decimal.NewFromInt(int64(i.Cantidad)))
}

// Pedido is an online order placed through the public catalog.
type Pedido struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Cliente       string          `gorm:"not null" json:"cliente"`
	Productos     ItemsPedido     `gorm:"type:jsonb;not null" json:"productos"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null;check:total > 0" json:"total"`
	MetodoPago    string          `gorm:"type:varchar(20);not null;check:metodo_pago IN ('transferencia','efectivo')" json:"metodo_pago"`
	TiempoLlegada string          `gorm:"not null" json:"tiempo_llegada"`
	Estado        string          `gorm:"type:varchar(20);not null;default:'pendiente';check:estado IN ('pendiente','completado','cancelado')" json:"estado"`
}

func (Pedido) TableName() string { return "pedidos" }

// PuedeTransicionarA reports whether the one-way state machine allows moving
// from the current estado to nuevo.
func (p *Pedido) PuedeTransicionarA(nuevo string) bool {
	if p.Estado != EstadoPendiente {
		return false
	}
	return nuevo == EstadoCompletado || nuevo == EstadoCancelado
}
