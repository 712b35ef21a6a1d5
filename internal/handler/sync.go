package handler

import (
	"net/http"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/mirror"
	"tiendapos/internal/sincro"

	"github.com/gin-gonic/gin"
)

// SyncHandler exposes the connectivity indicator and a manual replay trigger.
type SyncHandler struct {
	engine *sincro.Engine
	espejo *mirror.Store
}

func NewSyncHandler(engine *sincro.Engine, espejo *mirror.Store) *SyncHandler {
	return &SyncHandler{engine: engine, espejo: espejo}
}

func (h *SyncHandler) Estado(c *gin.Context) {
	resp := dto.EstadoSyncResponse{Online: h.engine.Online()}
	if cambios, err := h.espejo.CambiosPendientes(c.Request.Context()); err == nil {
		resp.Pendientes = len(cambios)
	}
	if t, err := h.espejo.UltimaSync(c.Request.Context()); err == nil && !t.IsZero() {
		resp.UltimaSync = t.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

// Replay forces a queue flush without waiting for the retry timer.
func (h *SyncHandler) Replay(c *gin.Context) {
	replayed, failed := h.engine.ReplayPendientes(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"online":        h.engine.Online(),
		"sincronizados": replayed,
		"fallidos":      failed,
	})
}
