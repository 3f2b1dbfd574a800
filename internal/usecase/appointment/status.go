package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Atalhos usados pelas rotas de confirmação e cancelamento.

func (uc *UpdateAppointment) Confirm(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	to := domain.StatusConfirmed
	return uc.Execute(ctx, barberID, appointmentID, AppointmentPatch{Status: &to})
}

func (uc *UpdateAppointment) Cancel(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	to := domain.StatusCancelled
	return uc.Execute(ctx, barberID, appointmentID, AppointmentPatch{Status: &to})
}
