package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Batch processed (possibly with partial failures)
	ExitBatchFailed = 1 // Every file in the batch failed grading
	ExitError       = 2 // Configuration or runtime error
)

// BatchFailureError indicates that the upload batch ran to completion,
// but no file was graded successfully.
type BatchFailureError struct {
	Message string
}

func (e *BatchFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var batchErr *BatchFailureError
		if errors.As(err, &batchErr) {
			os.Exit(ExitBatchFailed)
		}

		os.Exit(ExitError)
	}
}
