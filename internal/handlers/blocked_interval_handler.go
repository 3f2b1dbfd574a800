package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BlockedIntervalHandler struct {
	store CalendarStore
	cache domain.SlotCache
	audit *audit.Dispatcher
}

func NewBlockedIntervalHandler(store CalendarStore, cache domain.SlotCache, audit *audit.Dispatcher) *BlockedIntervalHandler {
	if cache == nil {
		cache = domain.NopCache{}
	}
	return &BlockedIntervalHandler{store: store, cache: cache, audit: audit}
}

type CreateBlockedIntervalRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Reason    string `json:"reason" binding:"max=255"`
}

// List aceita ?from e ?to (YYYY-MM-DD), ambos opcionais.
func (h *BlockedIntervalHandler) List(c *gin.Context) {
	barberID := middleware.BarberID(c)
	from, to := c.Query("from"), c.Query("to")

	if (from != "" && !validDate(from)) || (to != "" && !validDate(to)) {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	blocked, err := h.store.ListBlockedIntervals(c.Request.Context(), barberID, from, to)
	if err != nil {
		httperr.Internal(c, "failed_to_list_blocked_intervals", "Erro ao listar bloqueios.")
		return
	}

	httpresp.List(c, blocked, map[string]string{"from": from, "to": to})
}

func (h *BlockedIntervalHandler) Create(c *gin.Context) {
	barberID := middleware.BarberID(c)

	var req CreateBlockedIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	if !validDate(req.Date) {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}
	if !validClockRange(req.StartTime, req.EndTime) {
		httperr.BadRequest(c, "invalid_interval", "Intervalo inválido.")
		return
	}

	b := models.BlockedInterval{
		BarberID:  barberID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	if err := h.store.CreateBlockedInterval(c.Request.Context(), &b); err != nil {
		httperr.Internal(c, "failed_to_create_blocked_interval", "Erro ao criar bloqueio.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), barberID, b.Date)
	writeAudit(c, h.audit, barberID, "blocked_interval_created", "blocked_interval", &b.ID, map[string]any{
		"date":  b.Date,
		"start": b.StartTime,
		"end":   b.EndTime,
	})

	httpresp.Created(c, b)
}

func (h *BlockedIntervalHandler) Delete(c *gin.Context) {
	barberID := middleware.BarberID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	b, err := h.store.DeleteBlockedInterval(c.Request.Context(), barberID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.NotFound(c, "blocked_interval_not_found", "Bloqueio não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_delete_blocked_interval", "Erro ao remover bloqueio.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), barberID, b.Date)
	writeAudit(c, h.audit, barberID, "blocked_interval_deleted", "blocked_interval", &b.ID, nil)

	httpresp.NoContent(c)
}
