package model

import "time"

// Operaciones replayables de la cola de cambios pendientes. Only product
// writes are queueable: orders, sales and report reads depend on
// server-generated state the station cannot fabricate offline.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// CambioPendiente is a product write that could not reach the remote store,
// persisted locally in FIFO order until the next successful reconnect.
type CambioPendiente struct {
	Operacion  string    `json:"operacion"` // insert | update | delete
	Producto   Producto  `json:"producto"`
	EncoladoEn time.Time `json:"encolado_en"`
}
