package worker

// alerta_worker.go
// Processes new-order alert jobs from QueueAlertas.
// Notifies the store owner by email whenever a catalog order arrives.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"tiendapos/internal/infra"
)

// AlertaPedidoPayload is the job envelope sent to QueueAlertas.
type AlertaPedidoPayload struct {
	PedidoID      string `json:"pedido_id"`
	Cliente       string `json:"cliente"`
	Total         string `json:"total"`
	MetodoPago    string `json:"metodo_pago"`
	TiempoLlegada string `json:"tiempo_llegada"`
}

// AlertaWorker emails the configured alert address for each new order.
type AlertaWorker struct {
	mailer       *infra.Mailer
	destinatario string
}

func NewAlertaWorker(mailer *infra.Mailer, destinatario string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, destinatario: destinatario}
}

func (w *AlertaWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AlertaPedidoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Malformed payloads never succeed; log-and-drop instead of retrying.
		log.Error().Err(err).Str("queue", QueueAlertas).Msg("Payload de alerta invalido, descartado")
		return nil
	}
	if w.destinatario == "" {
		return nil
	}

	asunto := fmt.Sprintf("Nuevo pedido de %s", payload.Cliente)
	cuerpo := fmt.Sprintf(
		"Pedido %s\nCliente: %s\nTotal: $%s\nPago: %s\nLlega en: %s\n",
		payload.PedidoID, payload.Cliente, payload.Total, payload.MetodoPago, payload.TiempoLlegada,
	)
	return w.mailer.SendAlerta(w.destinatario, asunto, cuerpo)
}
