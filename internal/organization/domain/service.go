package domain

import (
	"context"
	"errors"
)

type CreateOrganizationRequest struct {
	Name string
	Slug string
}

type GetOrganizationRequest struct {
	ID string
}

type AddMembershipRequest struct {
	AccountID string
	Role      Role
	ProfileID string
}

type Service interface {
	Create(context.Context, CreateOrganizationRequest) (Organization, error)
	GetByID(context.Context, GetOrganizationRequest) (Organization, error)
	AddMembership(context.Context, AddMembershipRequest) (Membership, error)
	ResolveRole(ctx context.Context, accountID string) (Membership, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidSlug         = errors.New("invalid_slug")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidRole         = errors.New("invalid_role")
	ErrNotFound            = errors.New("not_found")
	ErrAlreadyMember       = errors.New("already_member")
)
