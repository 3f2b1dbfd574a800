package appointment

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Occupies indica se o agendamento bloqueia o intervalo na agenda.
func (s Status) Occupies() bool {
	return s != StatusCancelled
}

// ===============================
// Validations
// ===============================

// InitialStatus é o único estado em que um agendamento nasce.
func InitialStatus() Status {
	return StatusPending
}

// CanTransition valida a máquina de estados:
// pending → confirmed | cancelled, confirmed → cancelled.
// Manter o mesmo estado é permitido e não tem efeito.
func CanTransition(from, to Status) error {
	if !to.Valid() {
		return httperr.ValidationErr("invalid_status")
	}
	if from == to {
		return nil
	}

	switch from {
	case StatusPending:
		if to == StatusConfirmed || to == StatusCancelled {
			return nil
		}
	case StatusConfirmed:
		if to == StatusCancelled {
			return nil
		}
	}

	return httperr.ValidationErr("invalid_state")
}
