package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Interval é semiaberto: [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps usa a regra semiaberta, então intervalos que apenas se tocam
// não conflitam.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) Within(o Interval) bool {
	return !i.Start.Before(o.Start) && !i.End.After(o.End)
}

type Busy struct {
	AppointmentID uint
	Interval
}

// Reason explica por que um intervalo não cabe na agenda.
type Reason string

const (
	Fits                   Reason = ""
	ReasonOutsideWorkHours Reason = "outside_working_hours"
	ReasonBlocked          Reason = "blocked_interval"
	ReasonOverlap          Reason = "time_conflict"
)

// DaySchedule é a foto da agenda de um barbeiro em uma data.
// Tanto o cálculo de disponibilidade quanto a validação de conflito
// passam por Check, por isso os dois nunca divergem.
type DaySchedule struct {
	Day     time.Time
	Window  *Interval
	Blocked []Interval
	Busy    []Busy
}

func (s DaySchedule) Check(iv Interval, exclude *uint) Reason {
	if s.Window == nil || !iv.End.After(iv.Start) || !iv.Within(*s.Window) {
		return ReasonOutsideWorkHours
	}

	for _, b := range s.Blocked {
		if iv.Overlaps(b) {
			return ReasonBlocked
		}
	}

	for _, b := range s.Busy {
		if exclude != nil && b.AppointmentID == *exclude {
			continue
		}
		if iv.Overlaps(b.Interval) {
			return ReasonOverlap
		}
	}

	return Fits
}

// Slots gera os inícios possíveis a cada step dentro do expediente e
// devolve, em ordem, os que passam por Check e não começam antes de notBefore.
func (s DaySchedule) Slots(duration, step time.Duration, notBefore time.Time) []time.Time {
	if s.Window == nil || duration <= 0 || step <= 0 {
		return nil
	}

	var out []time.Time
	for cur := s.Window.Start; !cur.Add(duration).After(s.Window.End); cur = cur.Add(step) {
		if cur.Before(notBefore) {
			continue
		}
		if s.Check(Interval{Start: cur, End: cur.Add(duration)}, nil) == Fits {
			out = append(out, cur)
		}
	}
	return out
}

// ClockOn combina uma data YYYY-MM-DD e um horário HH:MM no fuso loc.
func ClockOn(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := timezone.ParseDateTime(date, clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// BuildDaySchedule monta a agenda de um dia a partir das regras persistidas.
// wh nulo ou inativo significa dia sem expediente.
func BuildDaySchedule(
	date string,
	loc *time.Location,
	wh *models.WorkingHours,
	blocked []models.BlockedInterval,
	appointments []models.Appointment,
) (DaySchedule, error) {

	day, err := timezone.ParseDate(date, loc)
	if err != nil {
		return DaySchedule{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	s := DaySchedule{Day: day}

	if wh != nil && wh.Active && wh.StartTime != "" && wh.EndTime != "" {
		start, errStart := ClockOn(date, wh.StartTime, loc)
		end, errEnd := ClockOn(date, wh.EndTime, loc)
		if errStart == nil && errEnd == nil && end.After(start) {
			s.Window = &Interval{Start: start, End: end}
		}
	}

	for _, b := range blocked {
		start, err := ClockOn(date, b.StartTime, loc)
		if err != nil {
			return DaySchedule{}, err
		}
		end, err := ClockOn(date, b.EndTime, loc)
		if err != nil {
			return DaySchedule{}, err
		}
		s.Blocked = append(s.Blocked, Interval{Start: start, End: end})
	}

	for i := range appointments {
		ap := &appointments[i]
		if !Status(ap.Status).Occupies() {
			continue
		}
		iv, err := IntervalOf(ap, loc)
		if err != nil {
			return DaySchedule{}, err
		}
		s.Busy = append(s.Busy, Busy{AppointmentID: ap.ID, Interval: iv})
	}

	return s, nil
}
