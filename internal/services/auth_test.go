package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/ctxutil"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

var tokenOwner = domain.MustIdentity("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

func TestAuthServiceRoundTrip(t *testing.T) {
	as := NewAuthService(logger.Nop(), "secret", time.Minute)
	tok, exp, err := as.IssueToken(context.Background(), tokenOwner)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry in the past: %s", exp)
	}
	ctx, err := as.SetContextFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if got := ctxutil.Caller(ctx); got != tokenOwner {
		t.Fatalf("caller: want=%s got=%s", tokenOwner, got)
	}
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	as := NewAuthService(logger.Nop(), "secret", time.Minute)
	other := NewAuthService(logger.Nop(), "other-secret", time.Minute)
	foreign, _, err := other.IssueToken(context.Background(), tokenOwner)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	expired := NewAuthService(logger.Nop(), "secret", time.Minute).(*authService)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _, err := expired.IssueToken(context.Background(), tokenOwner)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: tokenOwner.String(), Issuer: "marketledger",
	}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: "not-an-address", Issuer: "marketledger", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}})
	badSub, err := badSubject.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	for name, tok := range map[string]string{
		"empty":       "",
		"garbage":     "abc.def.ghi",
		"wrong key":   foreign,
		"expired":     stale,
		"alg none":    unsigned,
		"bad subject": badSub,
	} {
		if _, err := as.SetContextFromToken(context.Background(), tok); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestAuthServiceRefusesZeroIdentity(t *testing.T) {
	as := NewAuthService(logger.Nop(), "secret", time.Minute)
	if _, _, err := as.IssueToken(context.Background(), domain.ZeroIdentity); err == nil {
		t.Fatalf("expected error for zero identity")
	}
	if _, _, err := NewAuthService(logger.Nop(), "", time.Minute).IssueToken(context.Background(), tokenOwner); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}
