package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchFailureErrorIsDetectable(t *testing.T) {
	err := fmt.Errorf("upload: %w", &BatchFailureError{Message: "all files failed grading"})

	var batchErr *BatchFailureError
	require.True(t, errors.As(err, &batchErr))
	require.Equal(t, "all files failed grading", batchErr.Message)
}

func TestRootCommandRegistersVerbs(t *testing.T) {
	cmd := newRootCommand()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"upload", "records", "play", "serve"} {
		require.True(t, names[want], "missing subcommand %s", want)
	}
}
