// Command moodmusic asks how you feel and prints a few songs to match.
//
//	moodmusic "I feel happy today"
//	echo "so sad" | moodmusic --json
//	moodmusic genres
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"Mood-Music-Go/pkg/config"
)

const (
	exitSuccess     = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{
		cfg:        config.Load(),
		in:         os.Stdin,
		out:        os.Stdout,
		errw:       os.Stderr,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		newService: config.NewService,
	}
	code := execute(ctx, a, os.Args[1:])
	stop()
	os.Exit(code)
}
