package httpresp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func run(h gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)
	return w
}

func TestListNeverReturnsNullData(t *testing.T) {
	w := run(func(c *gin.Context) {
		var rows []string
		List(c, rows, nil)
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Body.String(); got != `{"data":[],"total":0}` {
		t.Fatalf("body = %s", got)
	}
}

func TestListEchoesOnlyAppliedFilters(t *testing.T) {
	w := run(func(c *gin.Context) {
		List(c, []int{1, 2, 3}, map[string]string{"date": "2030-01-07", "status": ""})
	})

	var out ListResponse[int]
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Total != 3 || len(out.Data) != 3 {
		t.Fatalf("unexpected list %+v", out)
	}
	if len(out.Filters) != 1 || out.Filters["date"] != "2030-01-07" {
		t.Fatalf("unexpected filters %v", out.Filters)
	}
}

func TestCreatedAndNoContent(t *testing.T) {
	if w := run(func(c *gin.Context) { Created(c, gin.H{"id": 1}) }); w.Code != http.StatusCreated {
		t.Fatalf("created status = %d", w.Code)
	}
	// gin só grava o status no flush; o recorder expõe o valor escrito
	if w := run(func(c *gin.Context) { NoContent(c); c.Writer.WriteHeaderNow() }); w.Code != http.StatusNoContent {
		t.Fatalf("no content status = %d", w.Code)
	}
}
