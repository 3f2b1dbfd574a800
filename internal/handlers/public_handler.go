package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// ServiceCatalog é o que a página pública precisa do catálogo.
type ServiceCatalog interface {
	ListActiveServices(ctx context.Context, barberID uint) ([]models.Service, error)
}

// BarberFinder resolve o slug público.
type BarberFinder interface {
	GetBarberBySlug(ctx context.Context, slug string) (*models.Barber, error)
}

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	barbers  BarberFinder
	services ServiceCatalog
	create   *ucAppointment.CreateAppointment
	avail    *ucAppointment.GetAvailability
}

func NewPublicHandler(
	barbers BarberFinder,
	services ServiceCatalog,
	create *ucAppointment.CreateAppointment,
	avail *ucAppointment.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		barbers:  barbers,
		services: services,
		create:   create,
		avail:    avail,
	}
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	barber, ok := h.barber(c)
	if !ok {
		return
	}

	services, err := h.services.ListActiveServices(c.Request.Context(), barber.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barber": gin.H{
			"name":     barber.Name,
			"slug":     barber.Slug,
			"timezone": barber.Timezone,
		},
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	slug := c.Param("slug")
	date := c.Query("date")
	serviceIDStr := c.Query("service_id")

	if date == "" || serviceIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Data e serviço obrigatórios.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil || serviceID == 0 {
		httperr.BadRequest(c, "invalid_service_id", "Serviço inválido.")
		return
	}

	slots, err := h.avail.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarberSlug: slug,
		ServiceID:  uint(serviceID),
		Date:       date,
	})
	if err != nil {
		httperr.From(c, err, "availability_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	slug := c.Param("slug")

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), req.toInput(ucAppointment.BarberRef{Slug: slug}))
	if err != nil {
		httperr.From(c, err, "failed_to_create_appointment")
		return
	}

	// o cliente só recebe o essencial do agendamento
	c.JSON(http.StatusCreated, gin.H{
		"id":         ap.ID,
		"status":     ap.Status,
		"date":       ap.Date,
		"start_time": ap.StartTime,
		"service":    ap.Service.Name,
	})
}

func (h *PublicHandler) barber(c *gin.Context) (*models.Barber, bool) {
	barber, err := h.barbers.GetBarberBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "barber_lookup_failed", "Erro ao buscar barbeiro.")
		return nil, false
	}
	if !barber.Active {
		httperr.NotFound(c, "barber_not_found", "Barbeiro não encontrado.")
		return nil, false
	}
	return barber, true
}
