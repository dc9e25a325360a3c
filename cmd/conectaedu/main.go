package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/cascaessama/MobileConectaEdu/internal/client/cmd"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	root := cmd.NewRootCmd(version, buildDate)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, cmd.Message(err))
		os.Exit(1)
	}
}
