package ussd

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/rentflow/internal/model"
	"github.com/Veraticus/rentflow/internal/service"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubDirectory answers lookups from an in-memory unit map.
type stubDirectory struct {
	units       map[string]model.Unit
	lookupErr   error
	settleErr   error
	settlement  model.Settlement
	lookups     []string
	delay       time.Duration
	mu          sync.Mutex
	block       bool
	settleBlock bool
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{
		units: map[string]model.Unit{
			"123456": {ID: "123456", PropertyID: "PROP01", UnitType: "bedsitter", RentPrice: 12000},
		},
		settlement: model.Settlement{
			SubaccountCode: "ACCT_riverside01",
			PayerEmail:     "wanjiku@example.com",
		},
	}
}

func (d *stubDirectory) LookupUnit(ctx context.Context, unitID string) (model.Unit, service.LookupStatus, error) {
	d.mu.Lock()
	d.lookups = append(d.lookups, unitID)
	d.mu.Unlock()

	if d.block {
		<-ctx.Done()
		return model.Unit{}, service.LookupFailed, ctx.Err()
	}
	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
			return model.Unit{}, service.LookupFailed, ctx.Err()
		}
	}
	if d.lookupErr != nil {
		return model.Unit{}, service.LookupFailed, d.lookupErr
	}
	unit, ok := d.units[unitID]
	if !ok {
		return model.Unit{}, service.LookupNotFound, nil
	}
	return unit, service.LookupFound, nil
}

func (d *stubDirectory) SettlementFor(ctx context.Context, _ string) (model.Settlement, error) {
	if d.settleBlock {
		<-ctx.Done()
		return model.Settlement{}, ctx.Err()
	}
	if d.settleErr != nil {
		return model.Settlement{}, d.settleErr
	}
	return d.settlement, nil
}

func (d *stubDirectory) lookupCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lookups)
}

// stubDispatcher records every charge it is asked to send.
type stubDispatcher struct {
	err     error
	calls   []model.ChargeRequest
	outcome service.ChargeOutcome
	mu      sync.Mutex
}

func acceptingDispatcher() *stubDispatcher {
	return &stubDispatcher{outcome: service.ChargeOutcome{Accepted: true, GatewayStatus: "pay_offline"}}
}

func (d *stubDispatcher) Dispatch(_ context.Context, req model.ChargeRequest) (service.ChargeOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, req)
	if d.err != nil {
		return service.ChargeOutcome{}, d.err
	}
	outcome := d.outcome
	outcome.Reference = req.Reference
	return outcome, nil
}

func (d *stubDispatcher) dispatched() []model.ChargeRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.ChargeRequest(nil), d.calls...)
}
