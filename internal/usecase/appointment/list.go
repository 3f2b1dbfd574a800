package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type ListAppointments struct {
	deps Deps
}

func NewListAppointments(deps Deps) *ListAppointments {
	return &ListAppointments{deps: deps.withDefaults()}
}

// Execute lista por dia (date) ou por mês (month, YYYY-MM), opcionalmente
// filtrando o estado. Sem data nem mês traz a agenda inteira.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	barberID uint,
	date string,
	month string,
	status string,
) ([]dto.AppointmentListDTO, error) {

	repo := uc.deps.Repo

	barber, err := repo.GetBarberByID(ctx, barberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NotFoundErr("barber_not_found")
		}
		return nil, err
	}
	loc := timezone.Location(barber.Timezone)

	if date != "" {
		if _, err := timezone.ParseDate(date, loc); err != nil {
			return nil, httperr.ValidationErr("invalid_date")
		}
	}
	if month != "" {
		if _, err := time.ParseInLocation("2006-01", month, loc); err != nil {
			return nil, httperr.ValidationErr("invalid_month")
		}
	}
	if status != "" && !domain.Status(status).Valid() {
		return nil, httperr.ValidationErr("invalid_status")
	}

	apps, err := repo.ListAppointments(ctx, domain.ListFilter{
		BarberID: barberID,
		Date:     date,
		Month:    month,
		Status:   domain.Status(status),
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(apps))
	for i := range apps {
		out = append(out, toListDTO(&apps[i], loc))
	}
	return out, nil
}

func toListDTO(ap *models.Appointment, loc *time.Location) dto.AppointmentListDTO {
	row := dto.AppointmentListDTO{
		ID:          ap.ID,
		Date:        ap.Date,
		StartTime:   ap.StartTime,
		Status:      ap.Status,
		ClientName:  ap.ClientName,
		ClientPhone: ap.ClientPhone,
		ClientEmail: ap.ClientEmail,
		ServiceID:   ap.ServiceID,
		ServiceName: ap.Service.Name,
		Price:       ap.Service.Price,
		Notes:       ap.Notes,
		ConfirmedAt: ap.ConfirmedAt,
		CancelledAt: ap.CancelledAt,
	}

	if iv, err := domain.IntervalOf(ap, loc); err == nil {
		row.EndTime = iv.End.Format(timezone.ClockLayout)
	}
	return row
}

// ToDTO expõe a mesma projeção para as respostas de escrita.
func ToDTO(ap *models.Appointment, tz string) dto.AppointmentListDTO {
	return toListDTO(ap, timezone.Location(tz))
}
