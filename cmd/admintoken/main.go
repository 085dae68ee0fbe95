package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/maheshrc27/writer-dashboard/pkg/utils"
)

// CLI mints a token for the admin routes, signed with the server's secret.
type CLI struct {
	UserID    string        `arg:"" help:"User id stored in the token."`
	SecretKey string        `help:"Signing secret, must match the server." env:"SECRET_KEY"`
	TTL       time.Duration `help:"Token lifetime." default:"24h"`
}

func (c *CLI) Run(out io.Writer) error {
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is not set")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("invalid ttl %s", c.TTL)
	}

	token, err := utils.GenerateToken(c.SecretKey, c.UserID, c.TTL)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, token)
	return err
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load environment variables", "error", err)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("admintoken"),
		kong.Description("Issue a bearer token for the writer dashboard admin API."),
		kong.UsageOnError(),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)

	ctx.FatalIfErrorf(ctx.Run())
}
