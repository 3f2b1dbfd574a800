package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ConflictValidator responde se um intervalo exato pode ser reservado
// agora: expediente, bloqueios e demais agendamentos não cancelados.
type ConflictValidator struct {
	repo domain.Repository
}

func NewConflictValidator(repo domain.Repository) *ConflictValidator {
	return &ConflictValidator{repo: repo}
}

// IsBookable devolve false para qualquer motivo de indisponibilidade.
// Erro só quando o barbeiro não existe, a entrada é malformada ou o
// storage falha. exclude remove o próprio agendamento numa remarcação.
func (v *ConflictValidator) IsBookable(
	ctx context.Context,
	barberID uint,
	date string,
	startTime string,
	duration time.Duration,
	exclude *uint,
) (bool, error) {

	barber, err := v.repo.GetBarberByID(ctx, barberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, httperr.NotFoundErr("barber_not_found")
		}
		return false, err
	}

	reason, err := checkSlot(ctx, v.repo, barber, date, startTime, duration, exclude)
	if err != nil {
		return false, err
	}
	return reason == domain.Fits, nil
}

// IsServiceBookable resolve a duração pelo serviço (ativo, do próprio
// barbeiro) quando serviceID vem preenchido; senão usa duration.
func (v *ConflictValidator) IsServiceBookable(
	ctx context.Context,
	barberID uint,
	serviceID uint,
	duration time.Duration,
	date string,
	startTime string,
) (bool, error) {

	if serviceID != 0 {
		service, err := resolveService(ctx, v.repo, barberID, serviceID)
		if err != nil {
			return false, err
		}
		duration = time.Duration(service.DurationMin) * time.Minute
	}
	return v.IsBookable(ctx, barberID, date, startTime, duration, nil)
}

// checkSlot é o coração da validação, usado tanto aqui quanto dentro
// das transações de criação e remarcação (com o repo da transação).
func checkSlot(
	ctx context.Context,
	repo domain.Repository,
	barber *models.Barber,
	date string,
	startTime string,
	duration time.Duration,
	exclude *uint,
) (domain.Reason, error) {

	if duration <= 0 {
		return "", httperr.ValidationErr("invalid_duration")
	}

	loc := timezone.Location(barber.Timezone)
	start, err := domain.ClockOn(date, startTime, loc)
	if err != nil {
		return "", httperr.ValidationErr("invalid_date_or_time")
	}

	sched, err := loadDaySchedule(ctx, repo, barber.ID, date, loc)
	if err != nil {
		return "", err
	}

	return sched.Check(domain.Interval{Start: start, End: start.Add(duration)}, exclude), nil
}

func loadDaySchedule(
	ctx context.Context,
	repo domain.Repository,
	barberID uint,
	date string,
	loc *time.Location,
) (domain.DaySchedule, error) {

	day, err := timezone.ParseDate(date, loc)
	if err != nil {
		return domain.DaySchedule{}, httperr.ValidationErr("invalid_date")
	}

	wh, err := repo.GetWorkingHours(ctx, barberID, int(day.Weekday()))
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("load working hours: %w", err)
	}

	blocked, err := repo.ListBlockedIntervals(ctx, barberID, date)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("load blocked intervals: %w", err)
	}

	appointments, err := repo.ListActiveAppointmentsForDay(ctx, barberID, date)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("load appointments: %w", err)
	}

	return domain.BuildDaySchedule(date, loc, wh, blocked, appointments)
}
