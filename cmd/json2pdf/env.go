package main

import (
	"io"
	"os"
	"time"

	"golang.org/x/term"

	json2pdf "github.com/Adoubf/json2pdf"
)

// batchRenderer renders batches to files and owns a browser until closed.
type batchRenderer interface {
	json2pdf.DocumentRenderer
	Close() error
}

var _ batchRenderer = (*json2pdf.Converter)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, terminal detection and the document renderer.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	IsTerminal  func() bool // reports whether Stderr is an interactive terminal
	NewRenderer func(opts ...json2pdf.Option) (batchRenderer, error)
}

// DefaultEnv returns the production environment backed by headless Chrome.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stderr.Fd()))
		},
		NewRenderer: newConverter,
	}
}

func newConverter(opts ...json2pdf.Option) (batchRenderer, error) {
	conv, err := json2pdf.NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	return conv, nil
}
