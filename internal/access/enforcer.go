// Package access gates marketplace writes on caller identity.
//
// Policies are attribute based: a request is allowed when the caller matches
// the attribute the action names (the platform owner, or a product's seller).
package access

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/yungbote/marketledger-backend/internal/domain"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
)

type Action string

const (
	ActOwner  Action = "owner"
	ActSeller Action = "seller"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.act == p.act && ((p.act == "owner" && r.sub == r.obj.Owner) || (p.act == "seller" && r.sub == r.obj.Seller))
`

// Resource carries the attributes a request is checked against.
type Resource struct {
	Owner  string
	Seller string
}

type Enforcer struct {
	e *casbin.SyncedEnforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("load access model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("init access enforcer: %w", err)
	}
	for _, act := range []Action{ActOwner, ActSeller} {
		if _, err := e.AddPolicy(string(act)); err != nil {
			return nil, fmt.Errorf("add %s policy: %w", act, err)
		}
	}
	return &Enforcer{e: e}, nil
}

// Allowed evaluates one request. The zero identity is never allowed.
func (en *Enforcer) Allowed(caller domain.Identity, act Action, res Resource) (bool, error) {
	if caller.IsZero() {
		return false, nil
	}
	ok, err := en.e.Enforce(string(caller), &res, string(act))
	if err != nil {
		return false, fmt.Errorf("access check failed: %w", err)
	}
	return ok, nil
}

// RequireOwner fails with Unauthorized unless caller is the platform owner.
func (en *Enforcer) RequireOwner(op string, caller, owner domain.Identity) error {
	ok, err := en.Allowed(caller, ActOwner, Resource{Owner: string(owner)})
	if err != nil {
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if !ok {
		return domainagg.NewError(domainagg.CodeUnauthorized, op, "caller is not the platform owner", nil)
	}
	return nil
}

// RequireSeller fails with Unauthorized unless caller listed the product.
func (en *Enforcer) RequireSeller(op string, caller domain.Identity, p *domain.Product) error {
	if p == nil {
		return domainagg.NewError(domainagg.CodeNotFound, op, "product not found", nil)
	}
	ok, err := en.Allowed(caller, ActSeller, Resource{Seller: string(p.Seller)})
	if err != nil {
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if !ok {
		return domainagg.NewError(domainagg.CodeUnauthorized, op, "caller is not the product seller", nil)
	}
	return nil
}

// RequireActiveSeller is RequireSeller plus an active-listing check, in that order.
func (en *Enforcer) RequireActiveSeller(op string, caller domain.Identity, p *domain.Product) error {
	if err := en.RequireSeller(op, caller, p); err != nil {
		return err
	}
	if !p.IsActive {
		return domainagg.NewError(domainagg.CodeInactiveProduct, op, fmt.Sprintf("product %d is inactive", p.ID), nil)
	}
	return nil
}
