package domain

import (
	"context"
	"errors"

	supplierdomain "github.com/smallbiznis/procura/internal/supplier/domain"
)

type CreateRuleRequest struct {
	CategoryID  string
	Name        string
	Priority    int
	MinQuantity *int64
	MaxQuantity *int64
	FieldNames  []string
	Operator    string
	FieldValues []string
	SupplierIDs []string
}

type ListRuleRequest struct {
	CategoryID string
}

type SetRuleActiveRequest struct {
	ID     string
	Active bool
}

type Service interface {
	CreateRule(context.Context, CreateRuleRequest) (RoutingRule, error)
	ListRules(context.Context, ListRuleRequest) ([]RoutingRule, error)
	SetRuleActive(context.Context, SetRuleActiveRequest) error

	// AssignedSuppliers resolves the supplier set for a ticket: the union of
	// every matching rule's suppliers, falling back to the category defaults
	// when nothing matches.
	AssignedSuppliers(ctx context.Context, facts TicketFacts) ([]supplierdomain.Supplier, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidBounds       = errors.New("invalid_quantity_bounds")
	ErrInvalidOperator     = errors.New("invalid_operator")
	ErrNoSuppliers         = errors.New("no_suppliers")
	ErrSupplierNotInOrg    = errors.New("supplier_not_in_organization")
	ErrNotFound            = errors.New("not_found")
)

// Operators accepted on a rule. Anything else is stored as-is and treated as
// a pass-through during matching, but Create rejects it up front.
var ValidOperators = map[string]struct{}{
	"":         {},
	"eq":       {},
	"neq":      {},
	"gt":       {},
	"gte":      {},
	"lt":       {},
	"lte":      {},
	"contains": {},
	"in":       {},
}
