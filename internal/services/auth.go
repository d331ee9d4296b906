package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/ctxutil"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
)

type AuthService interface {
	IssueToken(ctx context.Context, id domain.Identity) (string, time.Time, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

// JWTClaims carries the caller identity in the subject.
type JWTClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey string
	accessTTL    time.Duration
	issuer       string
	now          func() time.Time
}

func NewAuthService(log *logger.Logger, jwtSecretKey string, accessTTL time.Duration) AuthService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &authService{
		log:          log.With("service", "AuthService"),
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		issuer:       "marketledger",
		now:          time.Now,
	}
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func (as *authService) IssueToken(ctx context.Context, id domain.Identity) (string, time.Time, error) {
	if id.IsZero() {
		return "", time.Time{}, fmt.Errorf("cannot issue token for zero identity")
	}
	if strings.TrimSpace(as.jwtSecretKey) == "" {
		return "", time.Time{}, fmt.Errorf("jwt secret not configured")
	}
	now := as.now()
	expiresAt := now.Add(as.accessTTL)
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			Issuer:    as.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("missing token")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(as.issuer),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired JWT token")
	}
	caller, err := domain.ParseIdentity(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid identity in token: %w", err)
	}
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		Caller:      caller,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}
