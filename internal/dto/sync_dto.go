package dto

// EstadoSyncResponse describes the sync engine's current mode for the UI
// connectivity indicator.
type EstadoSyncResponse struct {
	Online     bool   `json:"online"`
	Pendientes int    `json:"pendientes"`
	UltimaSync string `json:"ultima_sync,omitempty"`
}

// TabRequest persists the last-active UI tab.
type TabRequest struct {
	Tab string `json:"tab" validate:"required,max=40"`
}
