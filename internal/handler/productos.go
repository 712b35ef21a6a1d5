package handler

import (
	"errors"
	"io"
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/service"
	"tiendapos/internal/sincro"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductosHandler struct {
	svc      service.ProductoService
	maxBytes int64
}

func NewProductosHandler(svc service.ProductoService, maxBytes int64) *ProductosHandler {
	return &ProductosHandler{svc: svc, maxBytes: maxBytes}
}

func (h *ProductosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) PorBarcode(c *gin.Context) {
	codigo := c.Param("codigo")
	if codigo == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Codigo de barras requerido"))
		return
	}
	resp, err := h.svc.PorBarcode(c.Request.Context(), codigo)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, sincro.ErrEncolado) {
			c.JSON(http.StatusAccepted, resp)
			return
		}
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, sincro.ErrEncolado) {
			c.JSON(http.StatusAccepted, resp)
			return
		}
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) AjustarStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarStock(c.Request.Context(), id, *req.Stock)
	if err != nil {
		if errors.Is(err, sincro.ErrEncolado) {
			c.JSON(http.StatusAccepted, resp)
			return
		}
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		if errors.Is(err, sincro.ErrEncolado) {
			c.Status(http.StatusAccepted)
			return
		}
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SubirImagen accepts a multipart form with an `imagen` file field. Size and
// MIME are enforced again by the bucket client.
func (h *ProductosHandler) SubirImagen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	fh, err := c.FormFile("imagen")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Campo de archivo `imagen` requerido"))
		return
	}
	if fh.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("La imagen supera el tamano maximo"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer el archivo"))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil || int64(len(data)) > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("La imagen supera el tamano maximo"))
		return
	}

	url, err := h.svc.SubirImagen(c.Request.Context(), id, fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ImagenResponse{URL: url})
}
