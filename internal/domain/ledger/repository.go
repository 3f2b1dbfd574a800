package ledger

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ListFilter struct {
	BarberID uint
	Type     string
	From     string
	To       string
}

type Repository interface {
	// HasAppointmentIncome diz se já existe lançamento apontando para o agendamento.
	HasAppointmentIncome(
		ctx context.Context,
		barberID uint,
		appointmentID uint,
	) (bool, error)

	HasAppointmentLine(
		ctx context.Context,
		barberID uint,
		appointmentID uint,
		description string,
	) (bool, error)

	// InsertIfAbsent grava o lançamento respeitando o índice único
	// (barber_id, description, appointment_id). inserted=false quando a
	// linha já existia.
	InsertIfAbsent(
		ctx context.Context,
		tx *models.Transaction,
	) (bool, error)

	// LockAppointment trava a linha do agendamento até o fim da transação.
	LockAppointment(
		ctx context.Context,
		barberID uint,
		appointmentID uint,
	) error

	CountAppointmentLines(
		ctx context.Context,
		barberID uint,
		appointmentID uint,
	) (int64, error)

	CreateTransaction(
		ctx context.Context,
		tx *models.Transaction,
	) error

	GetTransaction(
		ctx context.Context,
		barberID uint,
		id uint,
	) (*models.Transaction, error)

	UpdateTransaction(
		ctx context.Context,
		tx *models.Transaction,
	) error

	DeleteTransaction(
		ctx context.Context,
		barberID uint,
		id uint,
	) error

	ListTransactions(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Transaction, error)

	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}
