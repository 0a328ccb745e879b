package stockout

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Salidas-api/internal/application/inventory"
	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/access"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
	"github.com/jhoicas/Salidas-api/internal/domain/repository"
)

var tracer = otel.Tracer("github.com/jhoicas/Salidas-api/stockout")

// RequestUseCase alta, cancelación, desactivación y lectura de solicitudes de salida.
type RequestUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	opts     Options
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(txRunner inventory.TxRunner, ledger *inventory.Ledger, opts Options) *RequestUseCase {
	return &RequestUseCase{txRunner: txRunner, ledger: ledger, opts: opts.withDefaults()}
}

// LineInput línea pedida al crear una solicitud.
type LineInput struct {
	ItemID         string
	Quantity       int64
	ConversionRate decimal.Decimal // cero = 1
}

// CreateRequestInput entrada para crear una solicitud.
type CreateRequestInput struct {
	Reason      string
	Notes       string
	ExternalRef string
	Lines       []LineInput
}

// CreateRequest crea la solicitud y sus líneas en estado pending (remaining = requested).
func (uc *RequestUseCase) CreateRequest(ctx context.Context, actor entity.Actor, in CreateRequestInput) (*RequestView, error) {
	ctx, span := tracer.Start(ctx, "stockout.create_request")
	defer span.End()

	view, err := uc.createRequest(ctx, actor, in)
	if err != nil {
		uc.opts.Recorder.Failure("create_request", err)
		return nil, err
	}
	span.SetAttributes(attribute.String("request_id", view.Request.ID))
	uc.opts.Log.Info().
		Str("request_id", view.Request.ID).
		Str("number", view.Request.Number).
		Str("requester_id", actor.ID).
		Int("lines", len(view.Lines)).
		Msg("solicitud de salida creada")
	return view, nil
}

func (uc *RequestUseCase) createRequest(ctx context.Context, actor entity.Actor, in CreateRequestInput) (*RequestView, error) {
	if err := access.Authorize(actor, access.ActionCreateRequest); err != nil {
		return nil, err
	}
	if !entity.ValidReason(in.Reason) {
		return nil, domain.Validation("reason", "motivo desconocido %q", in.Reason)
	}
	if len(in.Lines) == 0 {
		return nil, domain.Validation("line_items", "se requiere al menos una línea")
	}
	for i, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, domain.Validation("requested_quantity", "línea %d: debe ser mayor que 0 (recibido %d)", i+1, l.Quantity)
		}
		if l.ConversionRate.IsNegative() {
			return nil, domain.Validation("conversion_rate", "línea %d: debe ser positiva", i+1)
		}
		if _, err := uc.ledger.CheckItem(ctx, l.ItemID); err != nil {
			return nil, err
		}
	}

	now := uc.opts.Now()
	var view *RequestView
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		number, err := tx.Requests.NextNumber(ctx)
		if err != nil {
			return err
		}
		req := &entity.StockOutRequest{
			ID:          uuid.New().String(),
			Number:      number,
			Status:      entity.RequestStatusPending,
			Reason:      in.Reason,
			Notes:       strings.TrimSpace(in.Notes),
			RequesterID: actor.ID,
			ExternalRef: strings.TrimSpace(in.ExternalRef),
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Requests.Create(ctx, req); err != nil {
			return err
		}
		for _, l := range in.Lines {
			rate := l.ConversionRate
			if rate.IsZero() {
				rate = decimal.NewFromInt(1)
			}
			item := &entity.LineItem{
				ID:                uuid.New().String(),
				RequestID:         req.ID,
				ItemID:            l.ItemID,
				RequestedQuantity: l.Quantity,
				RemainingQuantity: l.Quantity,
				ConversionRate:    rate,
				Status:            entity.LineStatusPending,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := tx.LineItems.Create(ctx, item); err != nil {
				return err
			}
		}
		view, err = loadView(ctx, tx, req.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Cancel cancela la solicitud. Solo el solicitante y solo mientras esté pending y sin ninguna
// decisión registrada (un rechazo parcial ya cuenta); las líneas pasan a cancelled.
func (uc *RequestUseCase) Cancel(ctx context.Context, actor entity.Actor, requestID string) (*RequestView, error) {
	ctx, span := tracer.Start(ctx, "stockout.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("request_id", requestID))

	var view *RequestView
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		req, err := tx.Requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.NotFound("request", requestID)
		}
		if actor.ID == "" || req.RequesterID != actor.ID {
			return domain.Permission("solo el solicitante puede cancelar la solicitud %s", req.Number)
		}
		if !req.Active {
			return domain.InvalidState("la solicitud %s está desactivada", req.Number)
		}
		current, err := loadView(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if current.Status != entity.RequestStatusPending {
			return domain.InvalidState("la solicitud %s está %s; solo se cancela en pending", req.Number, current.Status)
		}
		if len(current.Approvals) > 0 {
			return domain.InvalidState("la solicitud %s ya tiene decisiones registradas", req.Number)
		}
		now := uc.opts.Now()
		for _, l := range current.Lines {
			if l.Projection.Status != entity.LineStatusPending {
				continue
			}
			item := l.Item
			item.Cancelled = true
			item.UpdatedAt = now
			if err := tx.LineItems.Update(ctx, &item); err != nil {
				return err
			}
		}
		req.CancelledAt = &now
		req.UpdatedAt = now
		if err := tx.Requests.Update(ctx, req); err != nil {
			return err
		}
		view, err = refreshView(ctx, tx, requestID, uc.opts)
		return err
	})
	if err != nil {
		uc.opts.Recorder.Failure("cancel", err)
		return nil, err
	}
	uc.opts.Log.Info().Str("request_id", requestID).Str("actor_id", actor.ID).Msg("solicitud cancelada")
	return view, nil
}

// Deactivate desactiva la solicitud (borrado lógico). Una solicitud desactivada no admite decisiones.
func (uc *RequestUseCase) Deactivate(ctx context.Context, actor entity.Actor, requestID string) error {
	if err := access.Authorize(actor, access.ActionDeactivate); err != nil {
		return err
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		req, err := tx.Requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.NotFound("request", requestID)
		}
		if !req.Active {
			return domain.InvalidState("la solicitud %s ya está desactivada", req.Number)
		}
		req.Active = false
		req.UpdatedAt = uc.opts.Now()
		return tx.Requests.Update(ctx, req)
	})
	if err != nil {
		uc.opts.Recorder.Failure("deactivate", err)
		return err
	}
	uc.opts.Log.Info().Str("request_id", requestID).Str("actor_id", actor.ID).Msg("solicitud desactivada")
	return nil
}

// Get devuelve la solicitud con estados recalculados.
func (uc *RequestUseCase) Get(ctx context.Context, requestID string) (*RequestView, error) {
	var view *RequestView
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		view, err = loadView(ctx, tx, requestID)
		return err
	})
	return view, err
}

// List lista solicitudes con estados recalculados. El filtro por estado y la paginación se resuelven
// en el repositorio sobre la columna caché de estado, que refreshView mantiene en cada escritura.
func (uc *RequestUseCase) List(ctx context.Context, filter repository.RequestFilter) ([]*RequestView, error) {
	var views []*RequestView
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		reqs, err := tx.Requests.List(ctx, filter)
		if err != nil {
			return err
		}
		views = make([]*RequestView, 0, len(reqs))
		for _, r := range reqs {
			v, err := loadView(ctx, tx, r.ID)
			if err != nil {
				return err
			}
			views = append(views, v)
		}
		return nil
	})
	return views, err
}

// History devuelve el libro de aprobaciones (ambas capas) de la solicitud, en orden de decisión.
func (uc *RequestUseCase) History(ctx context.Context, requestID string) ([]entity.Approval, error) {
	view, err := uc.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return view.Approvals, nil
}
