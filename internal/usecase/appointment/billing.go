package appointment

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	ledger "github.com/BruksfildServices01/barber-booking/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	ucledger "github.com/BruksfildServices01/barber-booking/internal/usecase/ledger"
)

// AddIncomeLines lança serviços extras prestados num atendimento já
// confirmado (uma receita por descrição distinta). Repetir a chamada
// com as mesmas descrições não duplica nada.
type AddIncomeLines struct {
	deps Deps
}

func NewAddIncomeLines(deps Deps) *AddIncomeLines {
	return &AddIncomeLines{deps: deps.withDefaults()}
}

func (uc *AddIncomeLines) Execute(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
	lines []ledger.IncomeLine,
) (int, error) {

	if len(lines) == 0 {
		return 0, httperr.ValidationErr("missing_ledger_lines")
	}

	repo := uc.deps.Repo

	wctx, cancel := uc.deps.writeContext(ctx)
	defer cancel()

	var created int
	err := repo.Transaction(wctx, func(tx domain.Repository) error {
		ap, err := tx.GetAppointmentForUpdate(wctx, barberID, appointmentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return httperr.NotFoundErr("appointment_not_found")
			}
			return err
		}

		// cobrança só depois da confirmação, e nunca de cancelado
		if domain.Status(ap.Status) != domain.StatusConfirmed {
			return httperr.ValidationErr("appointment_not_confirmed")
		}

		created, err = uc.deps.Ledger.EnsureIncomeLinesWith(wctx, tx.Ledger(), ucledger.IncomeInput{
			BarberID:      barberID,
			AppointmentID: ap.ID,
			Date:          ap.Date,
			Lines:         lines,
		})
		if err != nil {
			return fmt.Errorf("ensure income lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		uc.deps.dispatch(ctx, barberID, "appointment_billed", &appointmentID, map[string]any{
			"lines":   len(lines),
			"created": created,
		})
	}
	return created, nil
}
