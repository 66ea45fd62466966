package inventory

import (
	"context"
	"errors"
)

// EventHandler receives ledger events once their transaction has committed.
type EventHandler interface {
	HandleSaleRecorded(ctx context.Context, evt SaleRecordedEvent) error
	HandlePurchaseRecorded(ctx context.Context, evt PurchaseRecordedEvent) error
}

// EventHandlers fans events out to every handler and joins their errors.
type EventHandlers []EventHandler

// HandleSaleRecorded passes evt to each handler in order.
func (hs EventHandlers) HandleSaleRecorded(ctx context.Context, evt SaleRecordedEvent) error {
	var errs []error
	for _, h := range hs {
		if h == nil {
			continue
		}
		if err := h.HandleSaleRecorded(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HandlePurchaseRecorded passes evt to each handler in order.
func (hs EventHandlers) HandlePurchaseRecorded(ctx context.Context, evt PurchaseRecordedEvent) error {
	var errs []error
	for _, h := range hs {
		if h == nil {
			continue
		}
		if err := h.HandlePurchaseRecorded(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
