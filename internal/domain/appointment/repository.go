package appointment

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barber-booking/internal/domain/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ErrNotFound é devolvido pelos repositórios quando o registro não existe.
var ErrNotFound = errors.New("record not found")

type ListFilter struct {
	BarberID uint
	Date     string
	// Month no formato YYYY-MM; ignorado quando Date vem preenchido.
	Month  string
	Status Status
}

type Repository interface {
	// -------- Barber --------
	GetBarberByID(
		ctx context.Context,
		id uint,
	) (*models.Barber, error)

	GetBarberBySlug(
		ctx context.Context,
		slug string,
	) (*models.Barber, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		barberID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Calendar rules --------
	// GetWorkingHours devolve nil, nil quando não há regra para o dia.
	GetWorkingHours(
		ctx context.Context,
		barberID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListBlockedIntervals(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]models.BlockedInterval, error)

	// -------- Appointment (conflict) --------
	// ListActiveAppointmentsForDay traz os agendamentos não cancelados
	// com o serviço carregado.
	ListActiveAppointmentsForDay(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]models.Appointment, error)

	// LockSchedule serializa escritas na agenda de (barberID, date)
	// até o fim da transação corrente.
	LockSchedule(
		ctx context.Context,
		barberID uint,
		date string,
	) error

	// -------- Appointment (CRUD) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		barberID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	GetAppointmentForUpdate(
		ctx context.Context,
		barberID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		barberID uint,
		appointmentID uint,
	) (bool, error)

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)

	// -------- Unit of work --------
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// Ledger devolve o repositório do caixa ligado à mesma conexão/transação.
	Ledger() ledger.Repository
}
