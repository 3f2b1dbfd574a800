package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// ApplyStatus muda o estado do agendamento e carimba a data da mudança.
// Retorna true quando houve transição de fato.
func ApplyStatus(ap *models.Appointment, to Status, now time.Time) (bool, error) {
	from := Status(ap.Status)
	if err := CanTransition(from, to); err != nil {
		return false, err
	}
	if from == to {
		return false, nil
	}

	ap.Status = string(to)
	switch to {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	}
	return true, nil
}

// IntervalOf devolve o intervalo efetivo do agendamento no dia informado,
// usando a duração atual do serviço referenciado.
func IntervalOf(ap *models.Appointment, loc *time.Location) (Interval, error) {
	start, err := ClockOn(ap.Date, ap.StartTime, loc)
	if err != nil {
		return Interval{}, err
	}
	return Interval{
		Start: start,
		End:   start.Add(time.Duration(ap.Service.DurationMin) * time.Minute),
	}, nil
}
