package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Salidas-api/internal/application/stockout"
)

func TestBroker_DeliversOnlyToRequestSubscribers(t *testing.T) {
	b := NewBroker(4, nil)
	chA, cancelA := b.Subscribe("req-a")
	defer cancelA()
	chB, cancelB := b.Subscribe("req-b")
	defer cancelB()

	b.Publish(context.Background(), stockout.Event{Type: stockout.EventExecuted, RequestID: "req-a", AssignmentID: "as-1"})

	select {
	case ev := <-chA:
		assert.Equal(t, "as-1", ev.AssignmentID)
	default:
		t.Fatal("el suscriptor de req-a no recibió el evento")
	}
	select {
	case ev := <-chB:
		t.Fatalf("req-b no debía recibir eventos: %+v", ev)
	default:
	}
}

func TestBroker_DropsWhenBufferFull(t *testing.T) {
	b := NewBroker(1, nil)
	ch, cancel := b.Subscribe("req")
	defer cancel()

	b.Publish(context.Background(), stockout.Event{RequestID: "req", MovementID: "m1"})
	b.Publish(context.Background(), stockout.Event{RequestID: "req", MovementID: "m2"})

	ev := <-ch
	assert.Equal(t, "m1", ev.MovementID)
	select {
	case ev := <-ch:
		t.Fatalf("el segundo evento debía descartarse: %+v", ev)
	default:
	}
}

func TestBroker_CancelClosesChannelAndIsIdempotent(t *testing.T) {
	b := NewBroker(1, nil)
	ch, cancel := b.Subscribe("req")
	require.Equal(t, 1, b.Subscribers("req"))

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers("req"))

	// publicar sin suscriptores no debe bloquear ni fallar
	b.Publish(context.Background(), stockout.Event{RequestID: "req"})
}
