package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/marketledger-backend/internal/app"
	"github.com/yungbote/marketledger-backend/internal/domain"
	"github.com/yungbote/marketledger-backend/internal/platform/envutil"
	"github.com/yungbote/marketledger-backend/internal/platform/logger"
	"github.com/yungbote/marketledger-backend/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if len(os.Args) > 1 && os.Args[1] == "token" {
		err = issueToken(ctx, os.Args[2:])
	} else {
		err = serve(ctx)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	a, err := app.New(ctx)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()
	return a.Run(ctx)
}

// issueToken prints a bearer token for the given identity. Useful for local
// testing against a running server.
func issueToken(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: marketledger token <identity>")
	}
	id, err := domain.ParseIdentity(args[0])
	if err != nil {
		return err
	}
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	cfg, err := app.LoadConfig(log)
	if err != nil {
		return err
	}
	tok, exp, err := services.NewAuthService(log, cfg.JWTSecretKey, cfg.AccessTokenTTL).IssueToken(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n# expires %s\n", tok, exp.UTC().Format("2006-01-02T15:04:05Z"))
	return nil
}
