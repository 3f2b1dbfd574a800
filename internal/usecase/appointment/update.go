package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// AppointmentPatch traz só os campos que mudam.
type AppointmentPatch struct {
	Status    *domain.Status
	Date      *string
	StartTime *string
}

func (p AppointmentPatch) empty() bool {
	return p.Status == nil && p.Date == nil && p.StartTime == nil
}

type UpdateAppointment struct {
	deps Deps
}

func NewUpdateAppointment(deps Deps) *UpdateAppointment {
	return &UpdateAppointment{deps: deps.withDefaults()}
}

// Execute aplica mudança de estado e/ou remarcação. A confirmação lança
// a receita na mesma transação: se o caixa falhar, nada é salvo.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
	patch AppointmentPatch,
) (*models.Appointment, error) {

	if patch.empty() {
		return nil, httperr.ValidationErr("empty_patch")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, httperr.ValidationErr("invalid_status")
	}

	repo := uc.deps.Repo

	barber, err := repo.GetBarberByID(ctx, barberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NotFoundErr("barber_not_found")
		}
		return nil, err
	}
	loc := timezone.Location(barber.Timezone)

	// leitura simples só para descobrir quais agendas travar
	current, err := repo.GetAppointment(ctx, barberID, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NotFoundErr("appointment_not_found")
		}
		return nil, err
	}

	oldDate := current.Date
	newDate := oldDate
	if patch.Date != nil {
		newDate = *patch.Date
	}
	if _, err := timezone.ParseDate(newDate, loc); err != nil {
		return nil, httperr.ValidationErr("invalid_date")
	}

	wctx, cancel := uc.deps.writeContext(ctx)
	defer cancel()

	unlock, err := uc.deps.Locks.Lock(wctx,
		lock.ScheduleKey(barberID, oldDate),
		lock.ScheduleKey(barberID, newDate),
	)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		ap       *models.Appointment
		from     domain.Status
		changed  bool
		moved    bool
		credited bool
	)

	err = repo.Transaction(wctx, func(tx domain.Repository) error {
		for _, date := range orderedDates(oldDate, newDate) {
			if err := tx.LockSchedule(wctx, barberID, date); err != nil {
				return err
			}
		}

		var err error
		ap, err = tx.GetAppointmentForUpdate(wctx, barberID, appointmentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return httperr.NotFoundErr("appointment_not_found")
			}
			return err
		}
		if ap.Date != oldDate {
			// remarcado por outra requisição entre a leitura e a trava
			return httperr.TransientErr("appointment_changed")
		}

		from = domain.Status(ap.Status)
		to := from
		if patch.Status != nil {
			to = *patch.Status
		}
		if err := domain.CanTransition(from, to); err != nil {
			return err
		}

		// -------------------------------
		// Remarcação
		// -------------------------------
		startTime := ap.StartTime
		if patch.StartTime != nil {
			startTime = *patch.StartTime
		}

		start, err := domain.ClockOn(newDate, startTime, loc)
		if err != nil {
			return httperr.ValidationErr("invalid_date_or_time")
		}
		startTime = start.Format(timezone.ClockLayout)
		moved = newDate != ap.Date || startTime != ap.StartTime

		if moved && to.Occupies() {
			if start.Before(uc.deps.Now().In(loc)) {
				return httperr.ValidationErr("in_the_past")
			}

			duration := time.Duration(ap.Service.DurationMin) * time.Minute
			reason, err := checkSlot(wctx, tx, barber, newDate, startTime, duration, &ap.ID)
			if err != nil {
				return err
			}
			if reason != domain.Fits {
				return httperr.SlotUnavailableErr()
			}
		}

		ap.Date = newDate
		ap.StartTime = startTime

		// -------------------------------
		// Estado
		// -------------------------------
		changed, err = domain.ApplyStatus(ap, to, uc.deps.Now())
		if err != nil {
			return err
		}

		if changed && to == domain.StatusConfirmed {
			credited, err = uc.deps.Ledger.EnsureIncomeWith(
				wctx,
				tx.Ledger(),
				barberID,
				ap.ID,
				ap.Service.Price,
				ap.Service.Name,
				ap.Date,
			)
			if err != nil {
				return fmt.Errorf("ensure income: %w", err)
			}
		}

		if !changed && !moved {
			return nil
		}
		return tx.UpdateAppointment(wctx, ap)
	})
	if err != nil {
		return nil, err
	}

	if !changed && !moved {
		return ap, nil
	}

	uc.deps.Cache.Invalidate(ctx, barberID, orderedDates(oldDate, newDate)...)

	meta := map[string]any{
		"from":       string(from),
		"to":         ap.Status,
		"date":       ap.Date,
		"start_time": ap.StartTime,
	}
	if moved {
		meta["previous_date"] = oldDate
		meta["previous_start_time"] = current.StartTime
	}
	if credited {
		meta["income_created"] = true
	}
	uc.deps.dispatch(ctx, barberID, updateAction(ap, changed, moved), &ap.ID, meta)

	return ap, nil
}

func updateAction(ap *models.Appointment, changed, moved bool) string {
	if changed {
		switch domain.Status(ap.Status) {
		case domain.StatusConfirmed:
			return "appointment_confirmed"
		case domain.StatusCancelled:
			return "appointment_cancelled"
		}
	}
	if moved {
		return "appointment_rescheduled"
	}
	return "appointment_updated"
}

// orderedDates devolve as datas distintas em ordem crescente, a mesma
// ordem usada para travar as agendas.
func orderedDates(a, b string) []string {
	switch {
	case a == b:
		return []string{a}
	case a < b:
		return []string{a, b}
	default:
		return []string{b, a}
	}
}
