package lock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// Keyed é um mutex por chave. Entradas são removidas quando ninguém
// mais segura nem espera pela chave.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// entry usa um canal de uma vaga como mutex para que a espera possa
// ser abandonada quando o contexto expira.
type entry struct {
	slot chan struct{}
	refs int
}

func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*entry)}
}

// ScheduleKey identifica a agenda de um barbeiro em uma data.
func ScheduleKey(barberID uint, date string) string {
	return fmt.Sprintf("%d:%s", barberID, date)
}

// Lock trava todas as chaves (sem repetição, em ordem lexicográfica,
// para que dois chamadores nunca se bloqueiem mutuamente) e devolve a
// função que as libera. Se o contexto expirar durante a espera, as
// chaves já obtidas são liberadas e o erro é Transient.
func (k *Keyed) Lock(ctx context.Context, keys ...string) (unlock func(), err error) {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		uniq = append(uniq, key)
	}
	sort.Strings(uniq)

	held := make([]string, 0, len(uniq))
	releaseHeld := func() {
		for i := len(held) - 1; i >= 0; i-- {
			k.release(held[i])
		}
	}

	for _, key := range uniq {
		if err := k.acquire(ctx, key); err != nil {
			releaseHeld()
			return nil, err
		}
		held = append(held, key)
	}

	return releaseHeld, nil
}

func (k *Keyed) acquire(ctx context.Context, key string) error {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{slot: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	// contexto já encerrado não disputa a vaga
	if ctx.Err() != nil {
		k.drop(key, e)
		return httperr.TransientErr("schedule_busy")
	}

	select {
	case e.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		k.drop(key, e)
		return httperr.TransientErr("schedule_busy")
	}
}

func (k *Keyed) release(key string) {
	k.mu.Lock()
	e := k.locks[key]
	k.mu.Unlock()

	<-e.slot
	k.drop(key, e)
}

func (k *Keyed) drop(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

func (k *Keyed) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
