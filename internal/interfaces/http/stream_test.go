package http

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Salidas-api/internal/application/stockout"
	"github.com/jhoicas/Salidas-api/internal/infrastructure/notify"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("conexión cerrada") }

type closedSource struct {
	events    []stockout.Event
	cancelled int
}

func (s *closedSource) Subscribe(string) (<-chan stockout.Event, func()) {
	ch := make(chan stockout.Event, len(s.events))
	for _, ev := range s.events {
		ch <- ev
	}
	close(ch)
	return ch, func() { s.cancelled++ }
}

func TestStream_LiberaSuscripcionSiElClienteSeFue(t *testing.T) {
	broker := notify.NewBroker(4, nil)
	h := NewStockOutHandler(nil, broker, nil)

	h.stream(bufio.NewWriter(failingWriter{}), "req-1")

	assert.Equal(t, 0, broker.Subscribers("req-1"))
}

func TestStream_EscribeEventosYCancelaAlCerrarse(t *testing.T) {
	src := &closedSource{events: []stockout.Event{{Type: stockout.EventExecuted, RequestID: "req-1", AssignmentID: "asg-1"}}}
	h := NewStockOutHandler(nil, src, nil)

	var buf bytes.Buffer
	h.stream(bufio.NewWriter(&buf), "req-1")

	out := buf.String()
	assert.Contains(t, out, ": suscrito\n\n")
	assert.Contains(t, out, "event: "+stockout.EventExecuted+"\n")
	assert.Contains(t, out, "asg-1")
	assert.Equal(t, 1, src.cancelled)
}
