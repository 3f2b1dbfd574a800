package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// Códigos SQLSTATE do Postgres tratados explicitamente.
const (
	pgUniqueViolation      = "23505"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
)

// IsExclusionConflict reconhece violações de unicidade/exclusão, que na
// agenda significam que outro agendamento ganhou a corrida pelo horário.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation || pgErr.Code == pgExclusionViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func IsTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable, pgQueryCanceled:
			return true
		}
	}
	return false
}

// ClassifyBookingError traduz falhas de storage em erros de negócio.
// Erros já classificados passam intactos.
func ClassifyBookingError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := httperr.KindOf(err); ok && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch {
	case IsExclusionConflict(err):
		return httperr.SlotUnavailableErr()
	case IsTransient(err):
		return httperr.TransientErr("storage_busy")
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
