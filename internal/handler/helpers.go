package handler

import (
	"errors"
	"net/http"
	"reflect"

	"tiendapos/internal/apierror"
	"tiendapos/internal/repository"
	"tiendapos/internal/sincro"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// responderError maps sync-engine sentinels to HTTP statuses. Queued writes
// are provisional successes: the body still carries the payload, so write
// handlers check ErrEncolado themselves before falling through here.
func responderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sincro.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
	case errors.Is(err, sincro.ErrNoDisponibleOffline):
		c.JSON(http.StatusServiceUnavailable, apierror.New("Operacion no disponible sin conexion"))
	case errors.Is(err, repository.ErrTransicionInvalida):
		c.JSON(http.StatusConflict, apierror.New("El pedido ya no esta pendiente"))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
