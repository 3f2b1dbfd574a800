package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	ledger "github.com/BruksfildServices01/barber-booking/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create *ucAppointment.CreateAppointment
	update *ucAppointment.UpdateAppointment
	remove *ucAppointment.DeleteAppointment
	list   *ucAppointment.ListAppointments
	avail  *ucAppointment.GetAvailability
	check  *ucAppointment.ConflictValidator
	bill   *ucAppointment.AddIncomeLines
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	update *ucAppointment.UpdateAppointment,
	remove *ucAppointment.DeleteAppointment,
	list *ucAppointment.ListAppointments,
	avail *ucAppointment.GetAvailability,
	check *ucAppointment.ConflictValidator,
	bill *ucAppointment.AddIncomeLines,
) *AppointmentHandler {
	return &AppointmentHandler{
		create: create,
		update: update,
		remove: remove,
		list:   list,
		avail:  avail,
		check:  check,
		bill:   bill,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	Date        string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime   string `json:"start_time" binding:"required"` // HH:MM
	Notes       string `json:"notes"`
}

type IncomeLineRequest struct {
	Description string  `json:"description" binding:"required,max=100"`
	Amount      float64 `json:"amount" binding:"gte=0"`
}

type AddIncomeLinesRequest struct {
	Lines []IncomeLineRequest `json:"lines" binding:"required,min=1,dive"`
}

type UpdateAppointmentRequest struct {
	Status    *string `json:"status"`
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
}

func (r CreateAppointmentRequest) toInput(ref ucAppointment.BarberRef) ucAppointment.CreateAppointmentInput {
	return ucAppointment.CreateAppointmentInput{
		Barber:      ref,
		ServiceID:   r.ServiceID,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		ClientEmail: r.ClientEmail,
		Date:        r.Date,
		StartTime:   r.StartTime,
		Notes:       r.Notes,
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	barberID := middleware.BarberID(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), req.toInput(ucAppointment.BarberRef{ID: barberID}))
	if err != nil {
		httperr.From(c, err, "failed_to_create_appointment")
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

// List aceita ?date=YYYY-MM-DD ou ?month=YYYY-MM, mais ?status.
func (h *AppointmentHandler) List(c *gin.Context) {
	barberID := middleware.BarberID(c)

	date, month, status := c.Query("date"), c.Query("month"), c.Query("status")

	rows, err := h.list.Execute(c.Request.Context(), barberID, date, month, status)
	if err != nil {
		httperr.From(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, rows, map[string]string{"date": date, "month": month, "status": status})
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	barberID := middleware.BarberID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	patch := ucAppointment.AppointmentPatch{
		Date:      req.Date,
		StartTime: req.StartTime,
	}
	if req.Status != nil {
		st := domain.Status(*req.Status)
		patch.Status = &st
	}

	ap, err := h.update.Execute(c.Request.Context(), barberID, id, patch)
	if err != nil {
		httperr.From(c, err, "failed_to_update_appointment")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.transition(c, h.update.Confirm)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.update.Cancel)
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, barberID, id uint) (*models.Appointment, error),
) {
	barberID := middleware.BarberID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	ap, err := fn(c.Request.Context(), barberID, id)
	if err != nil {
		httperr.From(c, err, "failed_to_update_appointment")
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	barberID := middleware.BarberID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	deleted, err := h.remove.Execute(c.Request.Context(), barberID, id)
	if err != nil {
		httperr.From(c, err, "failed_to_delete_appointment")
		return
	}
	if !deleted {
		httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// AVAILABILITY
// ======================================================

// Availability aceita service_id ou duration (minutos).
func (h *AppointmentHandler) Availability(c *gin.Context) {
	barberID := middleware.BarberID(c)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	serviceID, ok := optionalUintQuery(c, "service_id")
	if !ok {
		return
	}
	minutes, ok := optionalUintQuery(c, "duration")
	if !ok {
		return
	}
	if serviceID == 0 && minutes == 0 {
		httperr.BadRequest(c, "missing_params", "Informe o serviço ou a duração.")
		return
	}

	slots, err := h.avail.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarberID:  barberID,
		ServiceID: serviceID,
		Duration:  time.Duration(minutes) * time.Minute,
		Date:      date,
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

// CheckSlot responde se o intervalo exato pode ser reservado agora.
// Aceita service_id ou duration (minutos), além de date e start_time.
func (h *AppointmentHandler) CheckSlot(c *gin.Context) {
	barberID := middleware.BarberID(c)

	date, start := c.Query("date"), c.Query("start_time")
	if date == "" || start == "" {
		httperr.BadRequest(c, "missing_params", "Informe data e horário.")
		return
	}

	serviceID, ok := optionalUintQuery(c, "service_id")
	if !ok {
		return
	}
	minutes, ok := optionalUintQuery(c, "duration")
	if !ok {
		return
	}
	if serviceID == 0 && minutes == 0 {
		httperr.BadRequest(c, "missing_params", "Informe o serviço ou a duração.")
		return
	}

	bookable, err := h.check.IsServiceBookable(
		c.Request.Context(),
		barberID,
		serviceID,
		time.Duration(minutes)*time.Minute,
		date,
		start,
	)
	if err != nil {
		httperr.From(c, err, "slot_check_failed")
		return
	}

	httpresp.OK(c, gin.H{
		"date":       date,
		"start_time": start,
		"bookable":   bookable,
	})
}

// ======================================================
// BILLING
// ======================================================

// AddIncomeLines lança serviços extras de um atendimento confirmado.
func (h *AppointmentHandler) AddIncomeLines(c *gin.Context) {
	barberID := middleware.BarberID(c)

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req AddIncomeLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Linhas de cobrança inválidas.")
		return
	}

	lines := make([]ledger.IncomeLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, ledger.IncomeLine{Description: l.Description, Amount: l.Amount})
	}

	created, err := h.bill.Execute(c.Request.Context(), barberID, id, lines)
	if err != nil {
		httperr.From(c, err, "failed_to_bill_appointment")
		return
	}

	httpresp.OK(c, gin.H{"created": created})
}
