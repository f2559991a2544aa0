package domain

import (
	"context"
	"errors"

	supplierdomain "github.com/smallbiznis/procura/internal/supplier/domain"
	"github.com/smallbiznis/procura/pkg/db/pagination"
)

type CreateTicketRequest struct {
	CustomerID      string
	CategoryID      string
	Title           string
	Description     string
	DesiredQuantity int64
	ExtraData       map[string]any
}

type GetTicketRequest struct {
	ID string
}

type ListTicketRequest struct {
	PageToken  string
	PageSize   int32
	CustomerID string
	CategoryID string
	Status     Status
}

type ListTicketResponse struct {
	pagination.PageInfo
	Tickets []Ticket `json:"tickets"`
}

type AcceptTicketRequest struct {
	ID string
}

type RejectTicketRequest struct {
	ID string
}

type CloseTicketRequest struct {
	ID string
}

type AddCommentRequest struct {
	TicketID   string
	AuthorRole string
	Body       string
}

type CreateTicketResponse struct {
	Ticket            Ticket                    `json:"ticket"`
	AssignedSuppliers []supplierdomain.Supplier `json:"assigned_suppliers"`
}

type Service interface {
	// Create validates the request against the category's form fields,
	// routes the ticket and notifies the assigned suppliers.
	Create(context.Context, CreateTicketRequest) (CreateTicketResponse, error)
	GetByID(context.Context, GetTicketRequest) (Ticket, error)
	GetBySupplierToken(ctx context.Context, token string) (Ticket, error)
	List(context.Context, ListTicketRequest) (ListTicketResponse, error)

	// Accept moves an offered ticket to accepted and creates the order from
	// the selected quote.
	Accept(context.Context, AcceptTicketRequest) (Ticket, error)
	Reject(context.Context, RejectTicketRequest) (Ticket, error)
	Close(context.Context, CloseTicketRequest) (Ticket, error)

	AddComment(context.Context, AddCommentRequest) (TicketComment, error)
	ListComments(ctx context.Context, ticketID string) ([]TicketComment, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidTitle        = errors.New("invalid_title")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidCustomer     = errors.New("invalid_customer")
	ErrInvalidCategory     = errors.New("invalid_category")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrNoSelectedQuote     = errors.New("no_selected_quote")
	ErrEmptyComment        = errors.New("empty_comment")
	ErrNotFound            = errors.New("not_found")
)
