package domain

import (
	"context"
	"errors"
)

type CreateSupplierRequest struct {
	Name  string
	Email string
	Phone string
}

type GetSupplierRequest struct {
	ID string
}

type ListSupplierRequest struct{}

type CreateProductRequest struct {
	SupplierID  string
	CategoryID  string
	Name        string
	Description string
	UnitPrice   string
	Currency    string
}

type ListProductRequest struct {
	SupplierID string
}

type Service interface {
	// Create registers a supplier and links it to the active organization.
	Create(context.Context, CreateSupplierRequest) (Supplier, error)
	GetByID(context.Context, GetSupplierRequest) (Supplier, error)
	List(context.Context, ListSupplierRequest) ([]Supplier, error)

	CreateProduct(context.Context, CreateProductRequest) (SupplierProduct, error)
	ListProducts(context.Context, ListProductRequest) ([]SupplierProduct, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrNotFound            = errors.New("not_found")
	ErrNotInOrganization   = errors.New("supplier_not_in_organization")
)
