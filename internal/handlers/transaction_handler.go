package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucLedger "github.com/BruksfildServices01/barber-booking/internal/usecase/ledger"
)

type TransactionHandler struct {
	uc *ucLedger.Transactions
}

func NewTransactionHandler(uc *ucLedger.Transactions) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

type TransactionRequest struct {
	Type        string  `json:"type" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Category    string  `json:"category"`
	Date        string  `json:"date" binding:"required"`
}

func (r TransactionRequest) toInput() ucLedger.ManualTransactionInput {
	return ucLedger.ManualTransactionInput{
		Type:        r.Type,
		Amount:      r.Amount,
		Description: r.Description,
		Category:    r.Category,
		Date:        r.Date,
	}
}

// List aceita ?type=income|expense, ?from e ?to.
func (h *TransactionHandler) List(c *gin.Context) {
	barberID := middleware.BarberID(c)
	from, to := c.Query("from"), c.Query("to")

	if (from != "" && !validDate(from)) || (to != "" && !validDate(to)) {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	kind := c.Query("type")

	txs, err := h.uc.List(c.Request.Context(), domain.ListFilter{
		BarberID: barberID,
		Type:     kind,
		From:     from,
		To:       to,
	})
	if err != nil {
		httperr.From(c, err, "failed_to_list_transactions")
		return
	}

	httpresp.List(c, txs, map[string]string{"type": kind, "from": from, "to": to})
}

func (h *TransactionHandler) Create(c *gin.Context) {
	barberID := middleware.BarberID(c)

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	tx, err := h.uc.Create(c.Request.Context(), barberID, req.toInput())
	if err != nil {
		httperr.From(c, err, "failed_to_create_transaction")
		return
	}

	httpresp.Created(c, tx)
}

func (h *TransactionHandler) Update(c *gin.Context) {
	barberID := middleware.BarberID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	tx, err := h.uc.Update(c.Request.Context(), barberID, id, req.toInput())
	if err != nil {
		httperr.From(c, err, "failed_to_update_transaction")
		return
	}

	httpresp.OK(c, tx)
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	barberID := middleware.BarberID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), barberID, id); err != nil {
		httperr.From(c, err, "failed_to_delete_transaction")
		return
	}

	httpresp.NoContent(c)
}
