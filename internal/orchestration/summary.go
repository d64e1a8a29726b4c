package orchestration

import (
	"fmt"
	"strings"
)

// Error-list bounds for the end-of-batch summary. When every file fails the
// full error list matters most, so more entries are shown than in the mixed
// case.
const (
	allFailedErrorLimit = 5
	mixedErrorLimit     = 3
)

// Summary renders the single end-of-batch message shown to the reviewer.
// Three branches: all failed, mixed, all succeeded.
func (o *Outcome) Summary() string {
	switch {
	case o.SuccessCount == 0 && o.ErrorCount > 0:
		return fmt.Sprintf(
			"Failed to analyze any files.\n\nErrors:\n%s\n\nFiles were saved but no grades were calculated.",
			truncateErrors(o.Errors, allFailedErrorLimit))
	case o.ErrorCount > 0:
		return fmt.Sprintf(
			"Successfully analyzed %d file(s), but %d file(s) failed.\n\nFailed files:\n%s",
			o.SuccessCount, o.ErrorCount, truncateErrors(o.Errors, mixedErrorLimit))
	default:
		return "Successfully stored dispatcher(s) with files and grades!"
	}
}

func truncateErrors(errs []string, limit int) string {
	if len(errs) <= limit {
		return strings.Join(errs, "\n")
	}
	return fmt.Sprintf("%s\n...and %d more", strings.Join(errs[:limit], "\n"), len(errs)-limit)
}
