package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// CalendarStore guarda expediente e bloqueios.
type CalendarStore interface {
	ListWorkingHours(ctx context.Context, barberID uint) ([]models.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, barberID uint, hours []models.WorkingHours) error
	ListBlockedIntervals(ctx context.Context, barberID uint, from, to string) ([]models.BlockedInterval, error)
	CreateBlockedInterval(ctx context.Context, b *models.BlockedInterval) error
	DeleteBlockedInterval(ctx context.Context, barberID uint, id uint) (*models.BlockedInterval, error)
}

type WorkingHoursHandler struct {
	store CalendarStore
	cache domain.SlotCache
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(store CalendarStore, cache domain.SlotCache, audit *audit.Dispatcher) *WorkingHoursHandler {
	if cache == nil {
		cache = domain.NopCache{}
	}
	return &WorkingHoursHandler{store: store, cache: cache, audit: audit}
}

type WorkingDayConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Active    bool   `json:"active"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	barberID := middleware.BarberID(c)

	hours, err := h.store.ListWorkingHours(c.Request.Context(), barberID)
	if err != nil {
		httperr.Internal(c, "failed_to_get_working_hours", "Erro ao buscar expediente.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update troca a semana inteira. Dias ausentes ficam sem expediente.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	barberID := middleware.BarberID(c)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	seen := make(map[int]bool, len(req.Days))
	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicate_weekday", "Dia da semana repetido.")
			return
		}
		seen[d.Weekday] = true

		if d.Active && !validClockRange(d.StartTime, d.EndTime) {
			httperr.BadRequest(c, "invalid_working_hours", "Horário de expediente inválido.")
			return
		}

		toCreate = append(toCreate, models.WorkingHours{
			BarberID:  barberID,
			Weekday:   d.Weekday,
			Active:    d.Active,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
		})
	}

	if err := h.store.ReplaceWorkingHours(c.Request.Context(), barberID, toCreate); err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Erro ao salvar expediente.")
		return
	}

	h.cache.InvalidateBarber(c.Request.Context(), barberID)
	writeAudit(c, h.audit, barberID, "working_hours_updated", "working_hours", nil, map[string]any{
		"days": len(toCreate),
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
