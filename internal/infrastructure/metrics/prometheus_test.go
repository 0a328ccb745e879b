package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.Decision(entity.LayerQuantity, entity.DecisionApproved)
	r.Decision(entity.LayerQuantity, entity.DecisionApproved)
	r.Decision(entity.LayerWarehouse, entity.DecisionApproved)
	r.Execution()
	r.Failure("assign_warehouse", domain.Validation("available_stock", "excede"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.decisions.WithLabelValues("quantity", "approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.decisions.WithLabelValues("warehouse", "approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.executions))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failures.WithLabelValues("assign_warehouse", "validation")))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "conflict", Kind(domain.Conflict("remaining_quantity", "x")))
	assert.Equal(t, "invalid_state", Kind(domain.InvalidState("x")))
	assert.Equal(t, "permission", Kind(domain.Permission("x")))
	assert.Equal(t, "not_found", Kind(domain.NotFound("request", "1")))
	assert.Equal(t, "internal", Kind(errors.New("boom")))
}

func TestMiddleware_CountsByRoute(t *testing.T) {
	r := NewRecorder()
	app := fiber.New()
	app.Use(r.Middleware())
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/items/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "/items/:id", "204")))
}
