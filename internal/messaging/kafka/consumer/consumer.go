package consumer

import (
	"context"
	"encoding/json"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"shelfmarket/internal/events"
	"shelfmarket/internal/invoice"
	invoiceerrors "shelfmarket/internal/invoice/errors"
)

// ConsumeOrderLifecycle raises an invoice for every paid order. Delivery is
// at-least-once; the unique order id on invoices makes replays a no-op.
func ConsumeOrderLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	invoiceService invoice.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.order_lifecycle")
	log.Info("order lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("order lifecycle consumer stopped")
				return
			}
			log.Error("fetch order lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.OrderLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode order lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.EventType != events.OrderEventPaid {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if _, err := invoiceService.CreateFromOrder(ctx, event); err != nil {
			// Duplicates and malformed ids cannot succeed on redelivery,
			// so commit the offset and move on.
			if errors.Is(err, invoiceerrors.ErrDuplicateOrderInvoice) ||
				errors.Is(err, invoiceerrors.ErrMalformedOrderEvent) {
				log.Warn("skipping order lifecycle event",
					zap.String("order_id", event.OrderID),
					zap.String("order_number", event.OrderNumber),
					zap.Error(err),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("create invoice from order failed",
				zap.String("order_id", event.OrderID),
				zap.String("order_number", event.OrderNumber),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit order lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("invoice raised from order_paid event",
			zap.String("order_id", event.OrderID),
			zap.String("order_number", event.OrderNumber),
		)
	}
}
