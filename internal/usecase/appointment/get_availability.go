package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type GetAvailability struct {
	deps Deps
}

func NewGetAvailability(deps Deps) *GetAvailability {
	return &GetAvailability{deps: deps.withDefaults()}
}

// Execute devolve, em ordem, os horários reserváveis do dia. Datas
// passadas e dias sem expediente resultam em lista vazia.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	repo := uc.deps.Repo

	barber, err := resolveBarber(ctx, repo, BarberRef{ID: in.BarberID, Slug: in.BarberSlug})
	if err != nil {
		return nil, err
	}

	duration := in.Duration
	if in.ServiceID != 0 {
		service, err := resolveService(ctx, repo, barber.ID, in.ServiceID)
		if err != nil {
			return nil, err
		}
		duration = time.Duration(service.DurationMin) * time.Minute
	}
	if duration <= 0 {
		return nil, httperr.ValidationErr("invalid_duration")
	}

	loc := timezone.Location(barber.Timezone)
	day, err := timezone.ParseDate(in.Date, loc)
	if err != nil {
		return nil, httperr.ValidationErr("invalid_date")
	}

	now := uc.deps.Now().In(loc)
	if day.Before(timezone.StartOfDay(now)) {
		return []domain.TimeSlot{}, nil
	}

	// nada antes do que CreateAppointment aceitaria
	notBefore := now.Add(time.Duration(barber.MinAdvanceMinutes) * time.Minute)
	cacheable := !notBefore.After(day)
	variant := fmt.Sprintf("%d/%d", int(duration.Minutes()), int(uc.deps.SlotStep.Minutes()))

	var stamp string
	if cacheable {
		cached, seen, ok := uc.deps.Cache.Get(ctx, barber.ID, in.Date, variant)
		if ok {
			return cached, nil
		}
		stamp = seen
	}

	sched, err := loadDaySchedule(ctx, repo, barber.ID, in.Date, loc)
	if err != nil {
		return nil, err
	}

	starts := sched.Slots(duration, uc.deps.SlotStep, notBefore)

	slots := make([]domain.TimeSlot, 0, len(starts))
	for _, s := range starts {
		slots = append(slots, domain.TimeSlot{
			Start: s.Format(timezone.ClockLayout),
			End:   s.Add(duration).Format(timezone.ClockLayout),
		})
	}

	if cacheable {
		uc.deps.Cache.Set(ctx, barber.ID, in.Date, variant, stamp, slots)
	}

	return slots, nil
}
