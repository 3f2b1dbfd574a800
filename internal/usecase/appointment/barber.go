package appointment

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// BarberRef aponta para um barbeiro pelo id interno ou pelo slug público.
// Quando os dois vêm preenchidos precisam indicar o mesmo barbeiro.
type BarberRef struct {
	ID   uint
	Slug string
}

func resolveBarber(
	ctx context.Context,
	repo domain.Repository,
	ref BarberRef,
) (*models.Barber, error) {

	var (
		barber *models.Barber
		err    error
	)

	switch {
	case ref.ID != 0:
		barber, err = repo.GetBarberByID(ctx, ref.ID)
	case ref.Slug != "":
		barber, err = repo.GetBarberBySlug(ctx, ref.Slug)
	default:
		return nil, httperr.ValidationErr("missing_barber")
	}

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NotFoundErr("barber_not_found")
		}
		return nil, err
	}

	if ref.ID != 0 && ref.Slug != "" && barber.Slug != ref.Slug {
		return nil, httperr.NotFoundErr("barber_not_found")
	}
	if !barber.Active {
		return nil, httperr.NotFoundErr("barber_not_found")
	}
	return barber, nil
}

// resolveService exige serviço ativo e do próprio barbeiro.
func resolveService(
	ctx context.Context,
	repo domain.Repository,
	barberID uint,
	serviceID uint,
) (*models.Service, error) {

	service, err := repo.GetService(ctx, barberID, serviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NotFoundErr("service_not_found")
		}
		return nil, err
	}
	if !service.Active {
		return nil, httperr.NotFoundErr("service_not_found")
	}
	if service.DurationMin <= 0 {
		return nil, httperr.ValidationErr("invalid_duration")
	}
	return service, nil
}
