package appointment

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	ucledger "github.com/BruksfildServices01/barber-booking/internal/usecase/ledger"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// Deps reúne a infraestrutura compartilhada pelos casos de uso de
// agendamento. Só Repo é obrigatório.
type Deps struct {
	Repo     domain.Repository
	Locks    *lock.Keyed
	Cache    domain.SlotCache
	Audit    *audit.Dispatcher
	Ledger   *ucledger.IncomeBridge
	Validate *validator.Validate
	Logger   *zap.Logger

	// Now permite fixar o relógio nos testes.
	Now func() time.Time
	// Timeout limita cada escrita na agenda; zero desliga.
	Timeout time.Duration
	// SlotStep é a granularidade da disponibilidade.
	SlotStep time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.Locks == nil {
		d.Locks = lock.NewKeyed()
	}
	if d.Cache == nil {
		d.Cache = domain.NopCache{}
	}
	d.Logger = logger.OrNop(d.Logger)
	if d.Ledger == nil {
		d.Ledger = ucledger.NewIncomeBridge(d.Repo.Ledger(), d.Audit, d.Logger)
	}
	if d.Validate == nil {
		d.Validate = validators.New(false)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.SlotStep <= 0 {
		d.SlotStep = 15 * time.Minute
	}
	return d
}

func (d Deps) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.Timeout)
}

func (d Deps) dispatch(ctx context.Context, barberID uint, action string, id *uint, meta any) {
	d.Audit.Dispatch(audit.Event{
		BarberID:  barberID,
		RequestID: audit.RequestID(ctx),
		Action:    action,
		Entity:    "appointment",
		EntityID:  id,
		Metadata:  meta,
	})
}
