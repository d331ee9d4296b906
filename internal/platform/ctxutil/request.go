package ctxutil

import (
	"context"

	"github.com/yungbote/marketledger-backend/internal/domain"
)

type requestDataKey struct{}

// RequestData carries the authenticated caller resolved by the auth middleware.
type RequestData struct {
	TokenString string
	Caller      domain.Identity
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// Caller returns the authenticated identity, or the zero identity when absent.
func Caller(ctx context.Context) domain.Identity {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.Caller
	}
	return domain.ZeroIdentity
}
