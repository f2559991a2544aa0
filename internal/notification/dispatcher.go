package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/procura/internal/providers/email"
	supplierdomain "github.com/smallbiznis/procura/internal/supplier/domain"
	ticketdomain "github.com/smallbiznis/procura/internal/ticket/domain"
	"go.uber.org/zap"
)

// Dispatcher notifies suppliers about new tickets. Delivery failures are
// logged, never surfaced to the request path.
type Dispatcher interface {
	TicketCreated(ctx context.Context, ticket ticketdomain.Ticket, suppliers []supplierdomain.Supplier)
}

type dispatcher struct {
	log    *zap.Logger
	sender email.Sender
}

func NewDispatcher(log *zap.Logger, sender email.Sender) Dispatcher {
	return &dispatcher{
		log:    log.Named("notification.dispatcher"),
		sender: sender,
	}
}

func (d *dispatcher) TicketCreated(ctx context.Context, ticket ticketdomain.Ticket, suppliers []supplierdomain.Supplier) {
	if len(suppliers) == 0 {
		d.log.Warn("ticket routed to no suppliers, skipping notification",
			zap.String("ticket_id", ticket.ID.String()),
		)
		return
	}

	subject := fmt.Sprintf("New purchase request: %s", ticket.Title)
	body := buildTicketBody(ticket)

	for _, supplier := range suppliers {
		to := strings.TrimSpace(supplier.Email)
		if to == "" {
			continue
		}
		if err := d.sender.Send(ctx, []string{to}, subject, body); err != nil {
			d.log.Warn("failed to notify supplier",
				zap.String("ticket_id", ticket.ID.String()),
				zap.String("supplier_id", supplier.ID.String()),
				zap.Error(err),
			)
		}
	}
}

func buildTicketBody(ticket ticketdomain.Ticket) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new purchase request is open for quotes.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", ticket.Title)
	fmt.Fprintf(&b, "Quantity: %d\n", ticket.DesiredQuantity)
	if ticket.Description != "" {
		fmt.Fprintf(&b, "Details: %s\n", ticket.Description)
	}
	fmt.Fprintf(&b, "\nSubmit your quote using token %s\n", ticket.SupplierToken)
	return b.String()
}
