package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Barber BarberRef `validate:"-"`

	ServiceID   uint   `validate:"required"`
	ClientName  string `validate:"required,max=100"`
	ClientPhone string `validate:"required,phone"`
	ClientEmail string `validate:"omitempty,email,max=100,email_domain"`
	Date        string `validate:"required,datetime=2006-01-02"`
	StartTime   string `validate:"required,datetime=15:04"`
	Notes       string `validate:"max=255"`
}

// ======================================================
// USECASE
// ======================================================

type CreateAppointment struct {
	deps Deps
}

func NewCreateAppointment(deps Deps) *CreateAppointment {
	return &CreateAppointment{deps: deps.withDefaults()}
}

// Execute reserva o horário como pending. A checagem de conflito e o
// insert acontecem sob a trava da agenda (barber, date), então duas
// reservas sobrepostas nunca são aceitas ao mesmo tempo.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	repo := uc.deps.Repo

	barber, err := resolveBarber(ctx, repo, in.Barber)
	if err != nil {
		return nil, err
	}

	service, err := resolveService(ctx, repo, barber.ID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	if err := uc.deps.Validate.StructCtx(ctx, in); err != nil {
		return nil, httperr.ValidationErr("invalid_input")
	}

	// -------------------------------
	// Relógio
	// -------------------------------
	loc := timezone.Location(barber.Timezone)
	start, err := domain.ClockOn(in.Date, in.StartTime, loc)
	if err != nil {
		return nil, httperr.ValidationErr("invalid_date_or_time")
	}

	now := uc.deps.Now().In(loc)
	if start.Before(now) {
		return nil, httperr.ValidationErr("in_the_past")
	}
	if start.Before(now.Add(time.Duration(barber.MinAdvanceMinutes) * time.Minute)) {
		return nil, httperr.ValidationErr("too_soon")
	}

	duration := time.Duration(service.DurationMin) * time.Minute

	ap := &models.Appointment{
		BarberID:    barber.ID,
		ServiceID:   service.ID,
		ClientName:  in.ClientName,
		ClientPhone: in.ClientPhone,
		ClientEmail: in.ClientEmail,
		Date:        in.Date,
		StartTime:   start.Format(timezone.ClockLayout),
		Status:      string(domain.InitialStatus()),
		Notes:       in.Notes,
	}

	// -------------------------------
	// Seção crítica
	// -------------------------------
	wctx, cancel := uc.deps.writeContext(ctx)
	defer cancel()

	unlock, err := uc.deps.Locks.Lock(wctx, lock.ScheduleKey(barber.ID, in.Date))
	if err != nil {
		uc.deps.Logger.Warn("booking aborted while waiting for schedule",
			zap.Uint("barber_id", barber.ID),
			zap.String("date", in.Date),
			zap.Error(err),
		)
		return nil, err
	}
	defer unlock()

	var reason domain.Reason
	err = repo.Transaction(wctx, func(tx domain.Repository) error {
		if err := tx.LockSchedule(wctx, barber.ID, in.Date); err != nil {
			return err
		}

		var err error
		reason, err = checkSlot(wctx, tx, barber, in.Date, ap.StartTime, duration, nil)
		if err != nil {
			return err
		}
		if reason != domain.Fits {
			return httperr.SlotUnavailableErr()
		}

		return tx.CreateAppointment(wctx, ap)
	})
	if err != nil {
		if httperr.IsKind(err, httperr.KindSlotUnavailable) {
			uc.deps.dispatch(ctx, barber.ID, "appointment_conflict", nil, map[string]any{
				"date":       in.Date,
				"start_time": ap.StartTime,
				"service_id": service.ID,
				"reason":     string(reason),
			})
		}
		if httperr.IsKind(err, httperr.KindTransient) {
			uc.deps.Logger.Warn("booking aborted",
				zap.Uint("barber_id", barber.ID),
				zap.String("date", in.Date),
				zap.Error(err),
			)
		}
		return nil, err
	}

	ap.Service = *service

	uc.deps.Cache.Invalidate(ctx, barber.ID, in.Date)
	uc.deps.dispatch(ctx, barber.ID, "appointment_created", &ap.ID, map[string]any{
		"date":       ap.Date,
		"start_time": ap.StartTime,
		"service_id": ap.ServiceID,
	})

	return ap, nil
}
