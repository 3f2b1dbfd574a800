package ledger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type IncomeInput struct {
	BarberID      uint
	AppointmentID uint
	Date          string
	Lines         []domain.IncomeLine
}

func (in IncomeInput) validate() error {
	if in.BarberID == 0 || in.AppointmentID == 0 {
		return httperr.ValidationErr("invalid_ledger_reference")
	}
	if len(in.Lines) == 0 {
		return httperr.ValidationErr("missing_ledger_lines")
	}
	for _, l := range in.Lines {
		if strings.TrimSpace(l.Description) == "" || l.Amount < 0 {
			return httperr.ValidationErr("invalid_ledger_line")
		}
	}
	return nil
}

// ======================================================
// USE CASE
// ======================================================

// IncomeBridge gera a receita de um agendamento confirmado, no máximo
// uma vez por (agendamento, linha).
type IncomeBridge struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	logger *zap.Logger
}

func NewIncomeBridge(
	repo domain.Repository,
	audit *audit.Dispatcher,
	zl *zap.Logger,
) *IncomeBridge {
	return &IncomeBridge{
		repo:   repo,
		audit:  audit,
		logger: logger.OrNop(zl),
	}
}

// ======================================================
// SINGLE LINE
// ======================================================

// EnsureIncome abre a própria transação, trava o agendamento e cria a
// receita se ainda não existir nenhuma apontando para ele.
func (b *IncomeBridge) EnsureIncome(
	ctx context.Context,
	barberID uint,
	appointmentID uint,
	amount float64,
	description string,
	date string,
) (bool, error) {

	var created bool
	err := b.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockAppointment(ctx, barberID, appointmentID); err != nil {
			return err
		}

		var err error
		created, err = b.EnsureIncomeWith(ctx, tx, barberID, appointmentID, amount, description, date)
		return err
	})
	return created, err
}

// EnsureIncomeWith roda dentro da transação do chamador. Qualquer
// lançamento já ligado ao agendamento torna a chamada um no-op.
func (b *IncomeBridge) EnsureIncomeWith(
	ctx context.Context,
	repo domain.Repository,
	barberID uint,
	appointmentID uint,
	amount float64,
	description string,
	date string,
) (bool, error) {

	in := IncomeInput{
		BarberID:      barberID,
		AppointmentID: appointmentID,
		Date:          date,
		Lines:         []domain.IncomeLine{{Description: description, Amount: amount}},
	}
	if err := in.validate(); err != nil {
		return false, err
	}

	exists, err := repo.HasAppointmentIncome(ctx, barberID, appointmentID)
	if err != nil {
		return false, fmt.Errorf("check appointment income: %w", err)
	}
	if exists {
		return false, nil
	}

	inserted, err := b.insert(ctx, repo, in, in.Lines[0])
	if err != nil || !inserted {
		return false, err
	}

	n, err := repo.CountAppointmentLines(ctx, barberID, appointmentID)
	if err != nil {
		return false, fmt.Errorf("recount appointment income: %w", err)
	}
	if n > 1 {
		b.inconsistent(in, "duplicate income detected after insert", zap.Int64("lines", n))
	}

	return true, nil
}

// ======================================================
// MULTI LINE
// ======================================================

// EnsureIncomeLines cria uma receita por descrição distinta. Linhas
// cuja descrição já existe para o agendamento são ignoradas.
func (b *IncomeBridge) EnsureIncomeLines(
	ctx context.Context,
	in IncomeInput,
) (int, error) {

	var created int
	err := b.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockAppointment(ctx, in.BarberID, in.AppointmentID); err != nil {
			return err
		}

		var err error
		created, err = b.EnsureIncomeLinesWith(ctx, tx, in)
		return err
	})
	return created, err
}

func (b *IncomeBridge) EnsureIncomeLinesWith(
	ctx context.Context,
	repo domain.Repository,
	in IncomeInput,
) (int, error) {

	if err := in.validate(); err != nil {
		return 0, err
	}

	created := 0
	seen := make(map[string]struct{}, len(in.Lines))

	for _, line := range in.Lines {
		if _, dup := seen[line.Description]; dup {
			continue
		}
		seen[line.Description] = struct{}{}

		exists, err := repo.HasAppointmentLine(ctx, in.BarberID, in.AppointmentID, line.Description)
		if err != nil {
			return created, fmt.Errorf("check appointment line: %w", err)
		}
		if exists {
			continue
		}

		inserted, err := b.insert(ctx, repo, in, line)
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}

	return created, nil
}

// ======================================================
// HELPERS
// ======================================================

func (b *IncomeBridge) insert(
	ctx context.Context,
	repo domain.Repository,
	in IncomeInput,
	line domain.IncomeLine,
) (bool, error) {

	appointmentID := in.AppointmentID
	tx := &models.Transaction{
		BarberID:      in.BarberID,
		Type:          models.TransactionIncome,
		Amount:        line.Amount,
		Description:   line.Description,
		Category:      domain.CategoryAppointment,
		Date:          in.Date,
		AppointmentID: &appointmentID,
	}

	inserted, err := repo.InsertIfAbsent(ctx, tx)
	if err != nil {
		return false, fmt.Errorf("insert income: %w", err)
	}

	if !inserted {
		// a checagem disse "não existe" e o índice disse "existe"
		b.inconsistent(in, "income insert suppressed by unique index", zap.String("description", line.Description))
		return false, nil
	}

	b.audit.Dispatch(audit.Event{
		BarberID:  in.BarberID,
		RequestID: audit.RequestID(ctx),
		Action:    "income_created",
		Entity:    "transaction",
		EntityID:  &tx.ID,
		Metadata: map[string]any{
			"appointment_id": in.AppointmentID,
			"amount":         line.Amount,
		},
	})

	return true, nil
}

func (b *IncomeBridge) inconsistent(in IncomeInput, msg string, fields ...zap.Field) {
	fields = append(fields,
		zap.Uint("barber_id", in.BarberID),
		zap.Uint("appointment_id", in.AppointmentID),
		zap.String("kind", "inconsistent"),
	)
	b.logger.Error(msg, fields...)
}
