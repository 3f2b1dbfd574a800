package appointment

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestAvailabilityAgreesWithValidator(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	long := h.seedService(t, "Barba e cabelo", 50)
	h.book(t, monday, "10:00")
	h.book(t, monday, "13:20")
	h.db.Create(&models.BlockedInterval{
		BarberID: h.fx.Barber.ID, Date: monday, StartTime: "12:00", EndTime: "13:00",
	})

	slots, err := h.avail.Execute(ctx, domain.AvailabilityInput{
		BarberSlug: h.fx.Barber.Slug,
		ServiceID:  long.ID,
		Date:       monday,
	})
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(slots) == 0 {
		t.Fatalf("expected slots")
	}

	for _, s := range slots {
		ok, err := h.valid.IsBookable(ctx, h.fx.Barber.ID, monday, s.Start, 50*time.Minute, nil)
		if err != nil {
			t.Fatalf("is bookable: %v", err)
		}
		if !ok {
			t.Fatalf("slot %s-%s offered but not bookable", s.Start, s.End)
		}
	}

	for _, s := range slots {
		if s.Start == "09:15" || s.Start == "11:30" || s.Start == "12:30" {
			t.Fatalf("slot %s should have been filtered", s.Start)
		}
	}
	if slots[0].Start != "09:00" || slots[0].End != "09:50" {
		t.Fatalf("first slot = %+v", slots[0])
	}
}

func TestAvailabilityEdgeCases(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    domain.AvailabilityInput
		empty bool
		kind  httperr.Kind
	}{
		{"past date", domain.AvailabilityInput{BarberID: h.fx.Barber.ID, Duration: 30 * time.Minute, Date: "2029-12-31"}, true, ""},
		{"no rule", domain.AvailabilityInput{BarberID: h.fx.Barber.ID, Duration: 30 * time.Minute, Date: "2030-01-06"}, true, ""},
		{"longer than day", domain.AvailabilityInput{BarberID: h.fx.Barber.ID, Duration: 9 * time.Hour, Date: monday}, true, ""},
		{"zero duration", domain.AvailabilityInput{BarberID: h.fx.Barber.ID, Date: monday}, false, httperr.KindValidation},
		{"unknown barber", domain.AvailabilityInput{BarberID: 999, Duration: 30 * time.Minute, Date: monday}, false, httperr.KindNotFound},
		{"bad date", domain.AvailabilityInput{BarberID: h.fx.Barber.ID, Duration: 30 * time.Minute, Date: "07/01/2030"}, false, httperr.KindValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slots, err := h.avail.Execute(ctx, tc.in)
			if tc.kind != "" {
				if !httperr.IsKind(err, tc.kind) {
					t.Fatalf("expected %s, got %v", tc.kind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.empty && len(slots) != 0 {
				t.Fatalf("expected no slots, got %v", slots)
			}
		})
	}
}

func TestAvailabilityTodayDropsPastStarts(t *testing.T) {
	h := newHarness(t)

	h.deps.Now = func() time.Time { return time.Date(2030, 1, 7, 15, 10, 0, 0, time.UTC) }
	avail := NewGetAvailability(h.deps)

	slots, err := avail.Execute(context.Background(), domain.AvailabilityInput{
		BarberID: h.fx.Barber.ID,
		Duration: 30 * time.Minute,
		Date:     monday,
	})
	if err != nil {
		t.Fatalf("availability: %v", err)
	}

	want := []string{"15:15", "15:30", "15:45", "16:00", "16:15", "16:30"}
	if len(slots) != len(want) {
		t.Fatalf("slots = %v", slots)
	}
	for i, s := range slots {
		if s.Start != want[i] {
			t.Fatalf("slots = %v", slots)
		}
	}
}

type memCache struct {
	data        map[string][]domain.TimeSlot
	invalidated []string
	version     int
}

func (m *memCache) key(date, variant string) string {
	return date + "|" + variant
}

func (m *memCache) Get(_ context.Context, _ uint, date, variant string) ([]domain.TimeSlot, string, bool) {
	v, ok := m.data[m.key(date, variant)]
	return v, strconv.Itoa(m.version), ok
}

func (m *memCache) Set(_ context.Context, _ uint, date, variant, stamp string, slots []domain.TimeSlot) {
	if stamp != strconv.Itoa(m.version) {
		return
	}
	m.data[m.key(date, variant)] = slots
}

func (m *memCache) Invalidate(_ context.Context, _ uint, dates ...string) {
	m.version++
	m.invalidated = append(m.invalidated, dates...)
	for k := range m.data {
		for _, d := range dates {
			if strings.HasPrefix(k, d+"|") {
				delete(m.data, k)
			}
		}
	}
}

func (m *memCache) InvalidateBarber(context.Context, uint) {
	m.version++
	m.data = map[string][]domain.TimeSlot{}
}

func TestAvailabilityCacheIsInvalidatedOnBooking(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	cache := &memCache{data: map[string][]domain.TimeSlot{}}
	h.deps.Cache = cache
	avail := NewGetAvailability(h.deps)
	create := NewCreateAppointment(h.deps)

	in := domain.AvailabilityInput{BarberID: h.fx.Barber.ID, ServiceID: h.fx.Service.ID, Date: monday}

	before, err := avail.Execute(ctx, in)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(cache.data) != 1 {
		t.Fatalf("expected cached entry")
	}

	if _, err := create.Execute(ctx, h.input(monday, "09:00")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != monday {
		t.Fatalf("expected invalidation of %s, got %v", monday, cache.invalidated)
	}

	after, err := avail.Execute(ctx, in)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(after) != len(before)-2 {
		t.Fatalf("expected two fewer slots, before=%d after=%d", len(before), len(after))
	}
}

func (h *harness) seedService(t *testing.T, name string, minutes int) models.Service {
	t.Helper()
	s := models.Service{
		BarberID:    h.fx.Barber.ID,
		Name:        name,
		DurationMin: minutes,
		Price:       70,
		Active:      true,
	}
	if err := h.db.Create(&s).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return s
}
