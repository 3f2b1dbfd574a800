package appointment

import (
	"context"
	"testing"
	"time"

	ledger "github.com/BruksfildServices01/barber-booking/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestAddIncomeLinesRequiresConfirmation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bill := NewAddIncomeLines(h.deps)

	ap := h.book(t, monday, "09:00")
	extra := []ledger.IncomeLine{{Description: "Barba", Amount: 30}}

	_, err := bill.Execute(ctx, h.fx.Barber.ID, ap.ID, extra)
	if !httperr.IsBusiness(err, "appointment_not_confirmed") {
		t.Fatalf("expected appointment_not_confirmed, got %v", err)
	}

	if _, err := h.update.Cancel(ctx, h.fx.Barber.ID, ap.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err = bill.Execute(ctx, h.fx.Barber.ID, ap.ID, extra)
	if !httperr.IsBusiness(err, "appointment_not_confirmed") {
		t.Fatalf("cancelled appointment must not be billed, got %v", err)
	}

	_, err = bill.Execute(ctx, h.fx.Barber.ID, 9999, extra)
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = bill.Execute(ctx, h.fx.Barber.ID, ap.ID, nil)
	if !httperr.IsBusiness(err, "missing_ledger_lines") {
		t.Fatalf("expected missing_ledger_lines, got %v", err)
	}
}

func TestAddIncomeLinesIsIdempotentPerDescription(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	bill := NewAddIncomeLines(h.deps)

	ap := h.book(t, monday, "09:00")
	if _, err := h.update.Confirm(ctx, h.fx.Barber.ID, ap.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	lines := []ledger.IncomeLine{
		{Description: "Barba", Amount: 30},
		{Description: "Sobrancelha", Amount: 15},
		{Description: "Barba", Amount: 30},
		// mesma descrição da receita da confirmação
		{Description: h.fx.Service.Name, Amount: h.fx.Service.Price},
	}

	created, err := bill.Execute(ctx, h.fx.Barber.ID, ap.ID, lines)
	if err != nil {
		t.Fatalf("bill: %v", err)
	}
	if created != 2 {
		t.Fatalf("expected 2 new lines, got %d", created)
	}

	created, err = bill.Execute(ctx, h.fx.Barber.ID, ap.ID, lines)
	if err != nil || created != 0 {
		t.Fatalf("repeat should be a no-op: created=%d err=%v", created, err)
	}

	if n := h.incomeCount(t, ap.ID); n != 3 {
		t.Fatalf("expected 3 income rows, got %d", n)
	}

	var total float64
	h.db.Model(&models.Transaction{}).
		Where("appointment_id = ?", ap.ID).
		Select("SUM(amount)").Scan(&total)
	if want := h.fx.Service.Price + 45; total != want {
		t.Fatalf("total = %v, want %v", total, want)
	}
}

func TestIsServiceBookable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.book(t, monday, "09:00")

	ok, err := h.valid.IsServiceBookable(ctx, h.fx.Barber.ID, h.fx.Service.ID, 0, monday, "09:15")
	if err != nil || ok {
		t.Fatalf("09:15 overlaps the booking: ok=%v err=%v", ok, err)
	}
	ok, err = h.valid.IsServiceBookable(ctx, h.fx.Barber.ID, h.fx.Service.ID, 0, monday, "09:30")
	if err != nil || !ok {
		t.Fatalf("09:30 should be free: ok=%v err=%v", ok, err)
	}

	// sem serviço vale a duração explícita
	ok, err = h.valid.IsServiceBookable(ctx, h.fx.Barber.ID, 0, 15*time.Minute, monday, "09:30")
	if err != nil || !ok {
		t.Fatalf("explicit duration: ok=%v err=%v", ok, err)
	}

	_, err = h.valid.IsServiceBookable(ctx, h.fx.Barber.ID, 9999, 0, monday, "09:30")
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("expected service not found, got %v", err)
	}
}
