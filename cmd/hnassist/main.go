package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"hnassist/cmd/hnassist/commands"
	"hnassist/internal/components/serviceutil"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "err", err)
	}

	ctx, cancel := serviceutil.SignalContext(context.Background())
	defer cancel()
	commands.ExecuteContext(ctx)
}
