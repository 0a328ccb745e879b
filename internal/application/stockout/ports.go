package stockout

import (
	"context"
	"time"

	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/pkg/logger"
)

// Tipos de evento emitidos hacia los observadores de una solicitud.
const (
	EventExecuted = "executed"
)

// Event aviso de refresco para quienes observan una solicitud. No es fuente de verdad:
// el estado persistido ya es correcto cuando se emite.
type Event struct {
	Type         string    `json:"type"`
	RequestID    string    `json:"request_id"`
	LineItemID   string    `json:"line_item_id"`
	AssignmentID string    `json:"assignment_id"`
	MovementID   string    `json:"movement_id"`
	ActorID      string    `json:"actor_id"`
	At           time.Time `json:"at"`
}

// Notifier canal de difusión best-effort, a lo sumo una vez, con alcance por solicitud.
// Publish nunca debe bloquear ni fallar la operación que lo invoca.
type Notifier interface {
	Publish(ctx context.Context, ev Event)
}

// Recorder métricas del motor (implementado con Prometheus en infraestructura).
type Recorder interface {
	Decision(layer entity.ApprovalLayer, decision string)
	Execution()
	Failure(operation string, err error)
}

type nopNotifier struct{}

func (nopNotifier) Publish(context.Context, Event) {}

type nopRecorder struct{}

func (nopRecorder) Decision(entity.ApprovalLayer, string) {}
func (nopRecorder) Execution()                            {}
func (nopRecorder) Failure(string, error)                 {}

// Options colaboradores opcionales compartidos por los casos de uso.
type Options struct {
	Notifier Notifier
	Recorder Recorder
	Log      *logger.Logger
	Now      func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Notifier == nil {
		o.Notifier = nopNotifier{}
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}
	if o.Log == nil {
		o.Log = logger.Nop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
