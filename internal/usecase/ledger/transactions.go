package ledger

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ManualTransactionInput struct {
	Type        string  `validate:"required,oneof=income expense"`
	Amount      float64 `validate:"gt=0"`
	Description string  `validate:"required,max=255"`
	Category    string  `validate:"max=50"`
	Date        string  `validate:"required,datetime=2006-01-02"`
}

// Transactions cuida dos lançamentos manuais. Lançamentos gerados por
// agendamento são somente leitura.
type Transactions struct {
	repo     domain.Repository
	validate *validator.Validate
	audit    *audit.Dispatcher
}

func NewTransactions(
	repo domain.Repository,
	validate *validator.Validate,
	audit *audit.Dispatcher,
) *Transactions {
	if validate == nil {
		validate = validator.New()
	}
	return &Transactions{
		repo:     repo,
		validate: validate,
		audit:    audit,
	}
}

func (uc *Transactions) List(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Transaction, error) {

	if filter.Type != "" && filter.Type != models.TransactionIncome && filter.Type != models.TransactionExpense {
		return nil, httperr.ValidationErr("invalid_type")
	}
	return uc.repo.ListTransactions(ctx, filter)
}

func (uc *Transactions) Create(
	ctx context.Context,
	barberID uint,
	in ManualTransactionInput,
) (*models.Transaction, error) {

	if err := uc.validate.Struct(in); err != nil {
		return nil, httperr.ValidationErr("invalid_transaction")
	}

	tx := &models.Transaction{
		BarberID:    barberID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Category:    in.Category,
		Date:        in.Date,
	}
	if err := uc.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	uc.dispatch(ctx, barberID, "transaction_created", tx.ID)
	return tx, nil
}

func (uc *Transactions) Update(
	ctx context.Context,
	barberID uint,
	id uint,
	in ManualTransactionInput,
) (*models.Transaction, error) {

	if err := uc.validate.Struct(in); err != nil {
		return nil, httperr.ValidationErr("invalid_transaction")
	}

	tx, err := uc.editable(ctx, barberID, id)
	if err != nil {
		return nil, err
	}

	tx.Type = in.Type
	tx.Amount = in.Amount
	tx.Description = in.Description
	tx.Category = in.Category
	tx.Date = in.Date

	if err := uc.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	uc.dispatch(ctx, barberID, "transaction_updated", tx.ID)
	return tx, nil
}

func (uc *Transactions) Delete(
	ctx context.Context,
	barberID uint,
	id uint,
) error {

	tx, err := uc.editable(ctx, barberID, id)
	if err != nil {
		return err
	}

	if err := uc.repo.DeleteTransaction(ctx, barberID, tx.ID); err != nil {
		return err
	}

	uc.dispatch(ctx, barberID, "transaction_deleted", tx.ID)
	return nil
}

func (uc *Transactions) editable(
	ctx context.Context,
	barberID uint,
	id uint,
) (*models.Transaction, error) {

	tx, err := uc.repo.GetTransaction(ctx, barberID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NotFoundErr("transaction_not_found")
		}
		return nil, err
	}

	if tx.FromAppointment() {
		return nil, httperr.ValidationErr("transaction_locked")
	}
	return tx, nil
}

func (uc *Transactions) dispatch(ctx context.Context, barberID uint, action string, id uint) {
	uc.audit.Dispatch(audit.Event{
		BarberID:  barberID,
		RequestID: audit.RequestID(ctx),
		Action:    action,
		Entity:    "transaction",
		EntityID:  &id,
	})
}
