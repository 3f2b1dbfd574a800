package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Event struct {
	BarberID  uint
	RequestID string
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
}

// Dispatcher grava eventos de auditoria fora do caminho da requisição.
// Um Dispatcher nil é válido e descarta tudo.
type Dispatcher struct {
	logger *Logger
	zl     *zap.Logger
	queue  chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(logger *Logger, zl *zap.Logger) *Dispatcher {
	if zl == nil {
		zl = zap.NewNop()
	}

	d := &Dispatcher{
		logger: logger,
		zl:     zl,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			d.zl.Error("audit write failed",
				zap.String("action", ev.Action),
				zap.Uint("barber_id", ev.BarberID),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		// fila cheia: auditoria nunca derruba a API
		d.zl.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drena a fila e espera o worker terminar. Dispatch depois de
// Close não é permitido.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
