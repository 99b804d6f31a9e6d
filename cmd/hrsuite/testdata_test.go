package main

import (
	"bytes"
	"sync"
	"testing"

	"github.com/spf13/cobra"
)

// executeCmd runs command with args and returns everything it printed.
func executeCmd(t *testing.T, command *cobra.Command, args ...string) (string, error) {
	t.Helper()

	buf := new(syncBuffer)
	command.SetOut(buf)
	command.SetErr(buf)
	command.SetArgs(args)

	_, err := command.ExecuteC()

	return buf.String(), err
}

// syncBuffer is safe to write to from the goroutines a command starts.
type syncBuffer struct {
	b bytes.Buffer
	m sync.Mutex
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.m.Lock()
	defer b.m.Unlock()

	return b.b.Write(p) //nolint:wrapcheck
}

func (b *syncBuffer) String() string {
	b.m.Lock()
	defer b.m.Unlock()

	return b.b.String()
}
