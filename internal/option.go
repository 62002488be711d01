package internal

import (
	"io"
	"os"
)

// Mode selects the front end started by Run.
type Mode string

// Front ends.
const (
	ModeMenu  Mode = "menu"
	ModeServe Mode = "serve"
	ModeMCP   Mode = "mcp"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	mode   Mode
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApplication() *application {
	return &application{
		mode:   ModeMenu,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMode selects the front end. The default is ModeMenu.
func WithMode(mode Mode) Option {
	return func(a *application) {
		a.mode = mode
	}
}

// WithStdio replaces the standard streams used by the menu and the logger.
func WithStdio(in io.Reader, out, errOut io.Writer) Option {
	return func(a *application) {
		a.stdin = in
		a.stdout = out
		a.stderr = errOut
	}
}
