package handler

import (
	"net/http"

	"tiendapos/internal/dto"
	"tiendapos/internal/mirror"

	"github.com/gin-gonic/gin"
)

// PreferenciasHandler persists small UI state (the active tab) so the station
// restores its view after a reload.
type PreferenciasHandler struct{ espejo *mirror.Store }

func NewPreferenciasHandler(espejo *mirror.Store) *PreferenciasHandler {
	return &PreferenciasHandler{espejo: espejo}
}

func (h *PreferenciasHandler) ObtenerTab(c *gin.Context) {
	tab, err := h.espejo.TabActiva(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tab": tab})
}

func (h *PreferenciasHandler) GuardarTab(c *gin.Context) {
	var req dto.TabRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.espejo.GuardarTabActiva(c.Request.Context(), req.Tab); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
