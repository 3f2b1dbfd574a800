package appointment

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
)

type DeleteAppointment struct {
	deps Deps
}

func NewDeleteAppointment(deps Deps) *DeleteAppointment {
	return &DeleteAppointment{deps: deps.withDefaults()}
}

// Execute apaga o agendamento de vez. Lançamentos de caixa que apontam
// para ele continuam existindo. false quando não havia o que apagar.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
) (bool, error) {

	repo := uc.deps.Repo

	ap, err := repo.GetAppointment(ctx, barberID, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	wctx, cancel := uc.deps.writeContext(ctx)
	defer cancel()

	unlock, err := uc.deps.Locks.Lock(wctx, lock.ScheduleKey(barberID, ap.Date))
	if err != nil {
		return false, err
	}
	defer unlock()

	var deleted bool
	err = repo.Transaction(wctx, func(tx domain.Repository) error {
		if err := tx.LockSchedule(wctx, barberID, ap.Date); err != nil {
			return err
		}

		var err error
		deleted, err = tx.DeleteAppointment(wctx, barberID, appointmentID)
		return err
	})
	if err != nil || !deleted {
		return false, err
	}

	uc.deps.Cache.Invalidate(ctx, barberID, ap.Date)
	uc.deps.dispatch(ctx, barberID, "appointment_deleted", &ap.ID, map[string]any{
		"date":       ap.Date,
		"start_time": ap.StartTime,
		"status":     ap.Status,
	})

	return true, nil
}
