package handler

import (
	"errors"
	"net/http"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/scanner"
	"tiendapos/internal/service"
	"tiendapos/internal/sincro"

	"github.com/gin-gonic/gin"
)

// ScannerHandler feeds station keystrokes through the burst classifier and
// resolves emitted codes against the catalog.
type ScannerHandler struct {
	clasificador *scanner.Clasificador
	productos    service.ProductoService
}

func NewScannerHandler(clasificador *scanner.Clasificador, productos service.ProductoService) *ScannerHandler {
	return &ScannerHandler{clasificador: clasificador, productos: productos}
}

// Tecla processes one keystroke. Most calls return {emitido:false}; the
// Enter that closes a qualifying burst returns the code plus the product.
func (h *ScannerHandler) Tecla(c *gin.Context) {
	var req dto.TeclaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return
	}

	ev := scanner.Tecla{At: time.Now(), Target: req.Target}
	if req.Enter {
		ev.Rune = scanner.Confirmar
	} else {
		runes := []rune(req.Char)
		if len(runes) != 1 {
			c.JSON(http.StatusBadRequest, apierror.New("Se espera exactamente un caracter"))
			return
		}
		ev.Rune = runes[0]
	}

	codigo, emitido := h.clasificador.Pulsar(ev)
	h.responder(c, codigo, emitido)
}

// Codigo injects a complete barcode, e.g. from a camera scan.
func (h *ScannerHandler) Codigo(c *gin.Context) {
	var req dto.CodigoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	codigo, emitido := h.clasificador.Inyectar(req.Codigo)
	h.responder(c, codigo, emitido)
}

func (h *ScannerHandler) responder(c *gin.Context, codigo string, emitido bool) {
	resp := dto.EscaneoResponse{Emitido: emitido, Codigo: codigo}
	if emitido {
		producto, err := h.productos.PorBarcode(c.Request.Context(), codigo)
		switch {
		case err == nil:
			resp.Producto = producto
		case errors.Is(err, sincro.ErrNoEncontrado):
			// Emitted but unknown code: the UI shows "producto no encontrado".
		default:
			responderError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}
