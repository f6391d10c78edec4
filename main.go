package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"oposiciones/quiz-extract/cmd/classify"
	"oposiciones/quiz-extract/cmd/inspect"
	"oposiciones/quiz-extract/cmd/root"
	"oposiciones/quiz-extract/internal/config"
)

func init() {
	// 1. Load .env before viper reads QUIZ_* variables
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
	}

	// 2. Initialize root command flags
	root.Init()

	// 3. Add all subcommands
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(inspect.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
