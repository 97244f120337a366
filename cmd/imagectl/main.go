// Command imagectl manages tiers and accounts out of band.
//
//	imagectl tier -name Premium -heights 200,400 -original -expiring -expiration 600
//	imagectl register -tier Premium
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"image-tier-api/config"
	"image-tier-api/internal/application/ports"
	"image-tier-api/internal/application/services"
	"image-tier-api/internal/domain/tier"
	"image-tier-api/internal/infrastructure/db/postgres"
	accountDB "image-tier-api/internal/infrastructure/db/postgres/account"
	tierDB "image-tier-api/internal/infrastructure/db/postgres/tier"
	"image-tier-api/internal/infrastructure/jwt"
)

const usage = `usage:
  imagectl tier -name NAME [-heights 200,400] [-original] [-expiring] [-expiration SECONDS]
  imagectl register [-tier NAME] [-token-ttl DURATION]`

var errUsage = errors.New(usage)

type registerOptions struct {
	tierName string
	tokenTTL time.Duration
}

// command is a fully parsed invocation. Parsing never touches the database.
type command struct {
	name     string
	tier     *tier.Tier
	register registerOptions
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	defer logger.Sync()

	if err = godotenv.Load(".env"); err != nil {
		logger.Warn("no .env file, using process environment", zap.Error(err))
	}
	cfg := config.Load()

	cmd, err := parseCommand(os.Args[1:], cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DBDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	pool, err := postgres.New(ctx, logger, dsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	tierRepo := tierDB.NewRepository(pool)

	switch cmd.name {
	case "tier":
		err = runTier(ctx, services.NewTierService(tierRepo), *cmd.tier, os.Stdout)
	case "register":
		identity := services.NewIdentityService(
			accountDB.NewRepository(pool),
			tierRepo,
			jwt.New(cfg.App.JWTSecret),
			cmd.register.tokenTTL,
		)
		err = runRegister(ctx, identity, cmd.register, os.Stdout)
	}
	if err != nil {
		logger.Error("imagectl "+cmd.name+" failed", zap.Error(err))
		os.Exit(1)
	}
}

func parseCommand(args []string, cfg config.Config) (*command, error) {
	if len(args) == 0 {
		return nil, errUsage
	}

	cmd := &command{name: args[0]}
	var err error
	switch cmd.name {
	case "tier":
		cmd.tier, err = parseTier(args[1:])
	case "register":
		cmd.register, err = parseRegister(args[1:], cfg)
	default:
		return nil, errUsage
	}
	if err != nil {
		return nil, err
	}

	return cmd, nil
}

func runTier(ctx context.Context, tierService ports.TierService, t tier.Tier, out io.Writer) error {
	saved, err := tierService.SaveTier(ctx, t)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "tier=%s id=%d heights=%v original=%t expiring=%t\n",
		saved.Name, saved.ID, tier.Resolve(saved).Heights, saved.AllowOriginalAccess, saved.AllowExpiringLinks)
	return nil
}

func parseRegister(args []string, cfg config.Config) (registerOptions, error) {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	tierName := fs.String("tier", "", "tier to subscribe the account to (empty for none)")
	tokenTTL := fs.Duration("token-ttl", 0, "token lifetime, 0 for no expiry")
	if err := fs.Parse(args); err != nil {
		return registerOptions{}, err
	}
	if cfg.App.JWTSecret == "" {
		return registerOptions{}, errors.New("SERVICE_JWT_SECRET is required")
	}

	return registerOptions{tierName: strings.TrimSpace(*tierName), tokenTTL: *tokenTTL}, nil
}

// runRegister creates the account and then issues its token as a separate step.
func runRegister(ctx context.Context, identity ports.Identity, opts registerOptions, out io.Writer) error {
	acc, err := identity.RegisterAccount(ctx, opts.tierName)
	if err != nil {
		return err
	}
	token, err := identity.IssueToken(acc)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "account=%s\ntoken=%s\n", acc.UUID, token)
	return nil
}

func parseTier(args []string) (*tier.Tier, error) {
	fs := flag.NewFlagSet("tier", flag.ContinueOnError)
	name := fs.String("name", "", "tier name")
	heights := fs.String("heights", "", "comma separated thumbnail heights")
	original := fs.Bool("original", false, "expose the original image")
	expiring := fs.Bool("expiring", false, "allow expiring links")
	expiration := fs.Int("expiration", 0, "default expiring link lifetime in seconds")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	specs, err := parseHeights(*heights)
	if err != nil {
		return nil, err
	}
	t := &tier.Tier{
		Name:                strings.TrimSpace(*name),
		ThumbnailSpecs:      specs,
		AllowOriginalAccess: *original,
		AllowExpiringLinks:  *expiring,
	}
	if *expiration != 0 {
		t.ExpirationSeconds = expiration
	}

	if err = t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

func parseHeights(s string) ([]tier.ThumbnailSpec, error) {
	specs := []tier.ThumbnailSpec{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		h, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: height %q is not a number", tier.ErrInvalidTier, part)
		}
		specs = append(specs, tier.ThumbnailSpec{Height: h})
	}

	return specs, nil
}
