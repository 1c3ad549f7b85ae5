package main

import (
	"context"   // Root context
	"errors"    // Error inspection
	"fmt"       // Output
	"os"        // Exit codes
	"os/signal" // Interrupt handling

	"github.com/SofiaUmrish/sneaker-drop/internal/apiclient" // Client errors

	"github.com/sirupsen/logrus" // Logging library
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true}) // Match the server log format
	logrus.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, apiclient.ErrNotAuthenticated) {
			fmt.Fprintln(os.Stderr, "Sign in first: sneakerctl login --email <email>")
		}
		os.Exit(1)
	}
}
