package handler

import (
	"net/http"
	"path/filepath"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/infra"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct {
	svc         service.VentaService
	storagePath string
}

func NewReportesHandler(svc service.VentaService, storagePath string) *ReportesHandler {
	return &ReportesHandler{svc: svc, storagePath: storagePath}
}

// VentasPorDia returns the per-day sales aggregation for the inclusive
// desde..hasta range, most recent day first.
func (h *ReportesHandler) VentasPorDia(c *gin.Context) {
	var filter dto.ReporteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros desde y hasta requeridos (YYYY-MM-DD)"))
		return
	}
	resp, err := h.svc.VentasPorDia(c.Request.Context(), filter.Desde, filter.Hasta)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DescargarPDF renders the same aggregation as a downloadable PDF.
func (h *ReportesHandler) DescargarPDF(c *gin.Context) {
	var filter dto.ReporteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros desde y hasta requeridos (YYYY-MM-DD)"))
		return
	}
	resp, err := h.svc.VentasPorDia(c.Request.Context(), filter.Desde, filter.Hasta)
	if err != nil {
		responderError(c, err)
		return
	}
	path, err := infra.GenerarReportePDF(resp.Dias, filter.Desde, filter.Hasta, h.storagePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo generar el PDF"))
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
