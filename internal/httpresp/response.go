package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListResponse envolve listagens. Filters ecoa apenas os filtros
// efetivamente aplicados, para o cliente conferir o recorte recebido.
type ListResponse[T any] struct {
	Data    []T               `json:"data"`
	Total   int               `json:"total"`
	Filters map[string]string `json:"filters,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// List nunca devolve "data": null; filtros vazios são omitidos.
func List[T any](c *gin.Context, data []T, filters map[string]string) {
	if data == nil {
		data = []T{}
	}

	applied := make(map[string]string, len(filters))
	for k, v := range filters {
		if v != "" {
			applied[k] = v
		}
	}
	if len(applied) == 0 {
		applied = nil
	}

	c.JSON(http.StatusOK, ListResponse[T]{
		Data:    data,
		Total:   len(data),
		Filters: applied,
	})
}
