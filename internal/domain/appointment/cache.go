package appointment

import "context"

// SlotCache guarda resultados de disponibilidade. Leituras podem ficar
// levemente desatualizadas; a validação na escrita é a fonte da verdade.
//
// Get devolve, mesmo num miss, o carimbo da versão vista. Set só grava
// se nenhuma invalidação aconteceu depois desse carimbo, para que uma
// leitura lenta não repovoe o cache com a agenda anterior a uma reserva.
type SlotCache interface {
	Get(ctx context.Context, barberID uint, date string, variant string) (slots []TimeSlot, stamp string, ok bool)
	Set(ctx context.Context, barberID uint, date string, variant string, stamp string, slots []TimeSlot)
	Invalidate(ctx context.Context, barberID uint, dates ...string)
	// InvalidateBarber descarta todas as datas do barbeiro (mudança de expediente).
	InvalidateBarber(ctx context.Context, barberID uint)
}

type NopCache struct{}

func (NopCache) Get(context.Context, uint, string, string) ([]TimeSlot, string, bool) {
	return nil, "", false
}
func (NopCache) Set(context.Context, uint, string, string, string, []TimeSlot) {}
func (NopCache) Invalidate(context.Context, uint, ...string)                   {}
func (NopCache) InvalidateBarber(context.Context, uint)                        {}
