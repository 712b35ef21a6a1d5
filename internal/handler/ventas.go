package handler

import (
	"errors"
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler {
	return &VentasHandler{svc: svc}
}

func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarVenta(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrCarritoVacio) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
