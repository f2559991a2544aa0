package domain

import (
	"context"
	"errors"
)

type CreateCategoryRequest struct {
	Name        string
	ParentID    string
	Description string
}

type GetCategoryRequest struct {
	ID string
}

type SetDefaultSuppliersRequest struct {
	CategoryID  string
	SupplierIDs []string
}

type CreateFormFieldRequest struct {
	CategoryID string
	Label      string
	Type       FieldType
	Required   bool
	Choices    []string
	Position   int
}

type ListFormFieldRequest struct {
	CategoryID string
}

type Service interface {
	Create(context.Context, CreateCategoryRequest) (Category, error)
	GetByID(context.Context, GetCategoryRequest) (Category, error)
	List(context.Context) ([]Category, error)

	SetDefaultSuppliers(context.Context, SetDefaultSuppliersRequest) error
	DefaultSupplierIDs(ctx context.Context, categoryID string) ([]string, error)

	CreateFormField(context.Context, CreateFormFieldRequest) (CategoryFormField, error)
	ListFormFields(context.Context, ListFormFieldRequest) ([]CategoryFormField, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidParent       = errors.New("invalid_parent")
	ErrInvalidFieldType    = errors.New("invalid_field_type")
	ErrMissingChoices      = errors.New("missing_choices")
	ErrDuplicateField      = errors.New("duplicate_field")
	ErrNotFound            = errors.New("not_found")
	ErrSupplierNotInOrg    = errors.New("supplier_not_in_organization")
)
