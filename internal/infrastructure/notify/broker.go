package notify

import (
	"context"
	"sync"

	"github.com/jhoicas/Salidas-api/internal/application/stockout"
	"github.com/jhoicas/Salidas-api/pkg/logger"
)

var _ stockout.Notifier = (*Broker)(nil)

// Broker difusión en proceso de eventos por solicitud. Entrega best-effort y a lo sumo una vez:
// si el buffer de un suscriptor está lleno, el evento se descarta para ese suscriptor.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscription]struct{}
	buffer int
	log    *logger.Logger
}

type subscription struct {
	ch   chan stockout.Event
	once sync.Once
}

// NewBroker crea el broker. buffer es la capacidad del canal de cada suscriptor.
func NewBroker(buffer int, log *logger.Logger) *Broker {
	if buffer <= 0 {
		buffer = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Broker{subs: make(map[string]map[*subscription]struct{}), buffer: buffer, log: log}
}

// Subscribe registra un observador de la solicitud. La función devuelta cancela la suscripción
// y cierra el canal; es seguro llamarla más de una vez.
func (b *Broker) Subscribe(requestID string) (<-chan stockout.Event, func()) {
	s := &subscription{ch: make(chan stockout.Event, b.buffer)}
	b.mu.Lock()
	set, ok := b.subs[requestID]
	if !ok {
		set = make(map[*subscription]struct{})
		b.subs[requestID] = set
	}
	set[s] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		s.once.Do(func() {
			b.mu.Lock()
			if set, ok := b.subs[requestID]; ok {
				delete(set, s)
				if len(set) == 0 {
					delete(b.subs, requestID)
				}
			}
			close(s.ch)
			b.mu.Unlock()
		})
	}
	return s.ch, cancel
}

// Publish entrega el evento a los observadores de ev.RequestID sin bloquear.
func (b *Broker) Publish(_ context.Context, ev stockout.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs[ev.RequestID] {
		select {
		case s.ch <- ev:
		default:
			b.log.Warn().
				Str("request_id", ev.RequestID).
				Str("type", ev.Type).
				Msg("evento descartado: suscriptor lento")
		}
	}
}

// Subscribers cantidad de observadores activos de una solicitud.
func (b *Broker) Subscribers(requestID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[requestID])
}
