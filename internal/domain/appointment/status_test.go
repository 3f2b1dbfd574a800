package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		code     string
	}{
		{StatusPending, StatusConfirmed, ""},
		{StatusPending, StatusCancelled, ""},
		{StatusConfirmed, StatusCancelled, ""},
		{StatusConfirmed, StatusConfirmed, ""},
		{StatusCancelled, StatusCancelled, ""},
		{StatusConfirmed, StatusPending, "invalid_state"},
		{StatusCancelled, StatusConfirmed, "invalid_state"},
		{StatusCancelled, StatusPending, "invalid_state"},
		{StatusPending, Status("done"), "invalid_status"},
	}

	for _, tc := range cases {
		err := CanTransition(tc.from, tc.to)
		if tc.code == "" {
			if err != nil {
				t.Fatalf("%s -> %s: unexpected error %v", tc.from, tc.to, err)
			}
			continue
		}
		if !httperr.IsBusiness(err, tc.code) || !httperr.IsKind(err, httperr.KindValidation) {
			t.Fatalf("%s -> %s: expected %s, got %v", tc.from, tc.to, tc.code, err)
		}
	}
}

func TestApplyStatusStampsTimes(t *testing.T) {
	now := time.Date(2030, 1, 7, 12, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusPending)}

	changed, err := ApplyStatus(ap, StatusConfirmed, now)
	if err != nil || !changed {
		t.Fatalf("confirm: changed=%v err=%v", changed, err)
	}
	if ap.ConfirmedAt == nil || !ap.ConfirmedAt.Equal(now) {
		t.Fatalf("confirmed_at not stamped")
	}

	changed, err = ApplyStatus(ap, StatusConfirmed, now)
	if err != nil || changed {
		t.Fatalf("same status should be a no-op: changed=%v err=%v", changed, err)
	}

	if _, err := ApplyStatus(ap, StatusCancelled, now); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ap.CancelledAt == nil || ap.Status != string(StatusCancelled) {
		t.Fatalf("cancel not applied: %+v", ap)
	}
}
