package httperr

import (
	"context"
	"errors"
)

// Kind classifica erros de negócio para o transporte decidir o status HTTP.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindValidation      Kind = "validation"
	KindSlotUnavailable Kind = "slot_unavailable"
	KindTransient       Kind = "transient"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

// ErrBusiness mantém o código legado; o tipo é Validation.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func NotFoundErr(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ValidationErr(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func SlotUnavailableErr() error {
	return BusinessError{Kind: KindSlotUnavailable, Code: "slot_unavailable"}
}

func TransientErr(code string) error {
	return BusinessError{Kind: KindTransient, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// KindOf devolve o tipo do erro. Timeouts de contexto contam como Transient.
func KindOf(err error) (Kind, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind, true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTransient, true
	}
	return "", false
}
