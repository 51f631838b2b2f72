// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// TTY writes output to stdout, warnings and debug output to stderr.
// It is safe for use from multiple goroutines.
type TTY struct {
	debug  bool
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	mu     *sync.Mutex
}

var _ InteractiveUI = TTY{}

func NewTTY(debug bool) TTY {
	return TTY{debug, os.Stdin, os.Stdout, os.Stderr, &sync.Mutex{}}
}

// NewCustomTTY is used for testing whether TTY reads and writes
// correct data.
func NewCustomTTY(debug bool, stdin io.Reader, stdout, stderr io.Writer) TTY {
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return TTY{debug, stdin, stdout, stderr, &sync.Mutex{}}
}

func (t TTY) Printf(str string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.stdout, str, args...)
}

func (t TTY) Warnf(str string, args ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.stderr, str, args...)
}

func (t TTY) Debugf(str string, args ...interface{}) {
	if t.debug {
		t.Warnf(str, args...)
	}
}

func (t TTY) DebugWriter() io.Writer {
	if t.debug {
		return t.stderr
	}
	return io.Discard
}

func (t TTY) Input() io.Reader { return t.stdin }
