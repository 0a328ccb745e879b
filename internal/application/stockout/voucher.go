package stockout

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Salidas-api/internal/application/inventory"
	"github.com/jhoicas/Salidas-api/internal/domain"
	"github.com/jhoicas/Salidas-api/internal/domain/entity"
)

// VoucherLine línea del comprobante con nombre de ítem resuelto.
type VoucherLine struct {
	SKU       string
	ItemName  string
	Unit      string
	Requested int64
	Approved  int64
	Rejected  int64
	Executed  int64
}

// VoucherDispatch salida ejecutada desde una bodega.
type VoucherDispatch struct {
	ItemName      string
	WarehouseName string
	Quantity      int64
	MovementID    string
	CompletedBy   string
	CompletedAt   time.Time
}

// Voucher datos del comprobante de salida.
type Voucher struct {
	Number      string
	RequestID   string
	Status      string
	Reason      string
	Notes       string
	ExternalRef string
	RequesterID string
	CreatedAt   time.Time
	IssuedAt    time.Time
	Lines       []VoucherLine
	Dispatches  []VoucherDispatch
}

// VoucherRenderer genera el documento del comprobante (PDF en infraestructura).
type VoucherRenderer interface {
	RenderVoucher(ctx context.Context, v Voucher) ([]byte, error)
}

// VoucherUseCase arma el comprobante de una solicitud con salidas ejecutadas.
type VoucherUseCase struct {
	requests *RequestUseCase
	ledger   *inventory.Ledger
	renderer VoucherRenderer
	opts     Options
}

// NewVoucherUseCase construye el caso de uso.
func NewVoucherUseCase(requests *RequestUseCase, ledger *inventory.Ledger, renderer VoucherRenderer, opts Options) *VoucherUseCase {
	return &VoucherUseCase{requests: requests, ledger: ledger, renderer: renderer, opts: opts.withDefaults()}
}

// Download devuelve el PDF y su nombre de archivo. El solicitante solo descarga los suyos.
// Sin ninguna cantidad ejecutada no hay comprobante: ErrInvalidState.
func (uc *VoucherUseCase) Download(ctx context.Context, actor entity.Actor, requestID string) ([]byte, string, error) {
	ctx, span := tracer.Start(ctx, "stockout.voucher")
	defer span.End()
	span.SetAttributes(attribute.String("request_id", requestID))

	if actor.ID == "" {
		return nil, "", domain.Permission("actor no identificado")
	}
	view, err := uc.requests.Get(ctx, requestID)
	if err != nil {
		return nil, "", err
	}
	if actor.Role == entity.RoleRequester && view.Request.RequesterID != actor.ID {
		return nil, "", domain.Permission("la solicitud %s no pertenece al actor", view.Request.Number)
	}
	if view.Status != entity.RequestStatusExecuted && view.Status != entity.RequestStatusPartiallyExecuted {
		return nil, "", domain.InvalidState("la solicitud %s está %s; el comprobante requiere salidas ejecutadas", view.Request.Number, view.Status)
	}

	voucher, err := uc.build(ctx, view)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.renderer.RenderVoucher(ctx, voucher)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	uc.opts.Log.Info().Str("request_id", requestID).Int("bytes", len(doc)).Msg("comprobante generado")
	return doc, fmt.Sprintf("comprobante_%s.pdf", view.Request.Number), nil
}

func (uc *VoucherUseCase) build(ctx context.Context, view *RequestView) (Voucher, error) {
	v := Voucher{
		Number:      view.Request.Number,
		RequestID:   view.Request.ID,
		Status:      view.Status,
		Reason:      view.Request.Reason,
		Notes:       view.Request.Notes,
		ExternalRef: view.Request.ExternalRef,
		RequesterID: view.Request.RequesterID,
		CreatedAt:   view.Request.CreatedAt,
		IssuedAt:    uc.opts.Now(),
	}
	names := make(map[string]string)
	for _, l := range view.Lines {
		line := VoucherLine{
			ItemName:  "Ítem " + l.Item.ItemID,
			Requested: l.Projection.Requested,
			Approved:  l.Projection.Approved,
			Rejected:  l.Projection.Rejected,
			Executed:  l.Projection.Executed,
		}
		if p, err := uc.ledger.CheckItem(ctx, l.Item.ItemID); err == nil {
			line.SKU, line.ItemName, line.Unit = p.SKU, p.Name, p.UnitMeasure
		}
		names[l.Item.ID] = line.ItemName
		v.Lines = append(v.Lines, line)
	}

	assignments := make(map[string]entity.Approval, len(view.Approvals))
	for _, a := range view.Approvals {
		if a.IsWarehouse() {
			assignments[a.ID] = a
		}
	}
	warehouses := make(map[string]string)
	for _, m := range view.Movements {
		if m.Status != entity.MovementStatusCompleted || m.CompletedAt == nil {
			continue
		}
		a, ok := assignments[m.ApprovalID]
		if !ok {
			continue
		}
		whName, ok := warehouses[m.WarehouseID]
		if !ok {
			whName = m.WarehouseID
			if wh, err := uc.ledger.CheckWarehouse(ctx, m.WarehouseID); err == nil {
				whName = wh.Name
			}
			warehouses[m.WarehouseID] = whName
		}
		v.Dispatches = append(v.Dispatches, VoucherDispatch{
			ItemName:      names[a.LineItemID],
			WarehouseName: whName,
			Quantity:      m.Quantity,
			MovementID:    m.ID,
			CompletedBy:   m.CompletedBy,
			CompletedAt:   *m.CompletedAt,
		})
	}
	return v, nil
}
