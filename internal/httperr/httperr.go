package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Unavailable(c *gin.Context, code, message string) {
	Write(c, http.StatusServiceUnavailable, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// From traduz um erro de caso de uso para a resposta HTTP.
// Qualquer erro que não seja de negócio vira 500 com o código fallback.
func From(c *gin.Context, err error, fallback string) {
	kind, ok := KindOf(err)
	if !ok {
		Internal(c, fallback, "Erro interno.")
		return
	}

	code := "timeout"
	var be BusinessError
	if errors.As(err, &be) {
		code = be.Code
	}

	switch kind {
	case KindNotFound:
		NotFound(c, code, "Registro não encontrado.")
	case KindValidation:
		BadRequest(c, code, "Dados inválidos.")
	case KindSlotUnavailable:
		Conflict(c, code, "Horário indisponível.")
	case KindTransient:
		Unavailable(c, code, "Tente novamente.")
	default:
		Internal(c, fallback, "Erro interno.")
	}
}
