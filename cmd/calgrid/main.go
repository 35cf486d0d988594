package main

import (
	"context"
	"os"

	appLog "calgrid/internal/log"
)

const version = "0.1.0"

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		appLog.Error("calgrid failed", err)
		os.Exit(1)
	}
}
