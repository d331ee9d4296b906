package aggregates

import (
	"context"

	"github.com/yungbote/marketledger-backend/internal/access"
	"github.com/yungbote/marketledger-backend/internal/data/repos"
	"github.com/yungbote/marketledger-backend/internal/domain"
	domainagg "github.com/yungbote/marketledger-backend/internal/domain/aggregates"
	"github.com/yungbote/marketledger-backend/internal/platform/dbctx"
)

type PlatformAggregateDeps struct {
	Base BaseDeps

	Settings repos.SettingsRepo
	Events   repos.EventRepo
	Access   *access.Enforcer
}

type platformAggregate struct {
	deps PlatformAggregateDeps
}

func NewPlatformAggregate(deps PlatformAggregateDeps) domainagg.PlatformAggregate {
	deps.Base = deps.Base.withDefaults()
	return &platformAggregate{deps: deps}
}

func (a *platformAggregate) Contract() domainagg.Contract {
	return domainagg.PlatformAggregateContract
}

func (a *platformAggregate) EnsureOwner(ctx context.Context, seed domain.Identity) (domain.Identity, error) {
	const op = "Marketplace.Platform.EnsureOwner"
	var owner domain.Identity
	if a.deps.Settings == nil {
		return owner, domainagg.NewError(domainagg.CodeInternal, op, "settings repo not configured", nil)
	}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		row, err := a.deps.Settings.Get(dbc)
		if err != nil {
			return err
		}
		if row != nil {
			owner = row.Owner
			return nil
		}
		if seed.IsZero() {
			return domainagg.NewError(domainagg.CodeInvalidInput, op, "no platform owner stored and no seed owner configured", nil)
		}
		if err := a.deps.Settings.CreateIfAbsent(dbc, seed); err != nil {
			return err
		}
		row, err = a.deps.Settings.Get(dbc)
		if err != nil {
			return err
		}
		if row == nil {
			return InvariantError("platform settings missing after seed")
		}
		owner = row.Owner
		return nil
	})
	return owner, err
}

func (a *platformAggregate) UpdateOwner(ctx context.Context, in domainagg.UpdatePlatformOwnerInput) (domainagg.UpdatePlatformOwnerResult, error) {
	const op = "Marketplace.Platform.UpdateOwner"
	var out domainagg.UpdatePlatformOwnerResult
	if in.NewOwner.IsZero() {
		return out, domainagg.NewError(domainagg.CodeInvalidInput, op, "new owner must be a non-zero identity", nil)
	}
	if a.deps.Settings == nil || a.deps.Events == nil || a.deps.Access == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "platform aggregate not configured", nil)
	}
	now := a.deps.Base.now()
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		row, err := a.deps.Settings.Lock(dbc)
		if err != nil {
			return err
		}
		if row == nil {
			return domainagg.NewError(domainagg.CodeInternal, op, "platform owner not configured", nil)
		}
		if err := a.deps.Access.RequireOwner(op, in.Caller, row.Owner); err != nil {
			return err
		}
		if err := a.deps.Settings.UpdateOwner(dbc, in.NewOwner); err != nil {
			return err
		}
		ev, err := recordEvent(dbc, a.deps.Events, now, domain.EventPlatformOwnerUpdated, domain.PlatformOwnerUpdated{
			Previous: row.Owner,
			Next:     in.NewOwner,
		})
		if err != nil {
			return err
		}
		out = domainagg.UpdatePlatformOwnerResult{Previous: row.Owner, Next: in.NewOwner, Event: ev}
		return nil
	})
	return out, err
}
