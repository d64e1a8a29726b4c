package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cs4273g/callreview/internal/classify"
	"github.com/cs4273g/callreview/internal/grading"
	"github.com/cs4273g/callreview/internal/orchestration"
	"github.com/cs4273g/callreview/internal/store"
	"github.com/cs4273g/callreview/internal/transcription"
)

func newUploadCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload call files and grade transcripts",
		Long: `Upload call files and grade transcripts.

Files are matched by name: <prefix>_<prefix>_<dispatcherName>.<ext>. JSON
files are treated as transcripts and sent to the grading service one at a
time; anything else that matches is recorded as an audio file. A .zip archive
is forwarded whole to the transcription service instead.

Only .zip and .json uploads are supported. Unsupported files are reported
up front and the rest of the batch proceeds once confirmed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			names := make([]string, len(args))
			for i, p := range args {
				names[i] = filepath.Base(p)
			}

			accepted, rejected := classify.SplitBatch(names)
			if len(rejected) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(),
					"The following files are not supported and will be skipped (allowed: %s):\n",
					strings.Join(classify.AllowedExtensions(), ", "))
				for _, name := range rejected {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
				}
				if len(accepted) == 0 {
					return fmt.Errorf("no supported files in batch")
				}
				if !yes && !promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout(),
					fmt.Sprintf("Continue with the remaining %d file(s)?", len(accepted))) {
					return fmt.Errorf("upload cancelled")
				}
			}

			// Archives bypass classification: the whole zip goes to the
			// transcription service, which produces transcripts later.
			if strings.EqualFold(filepath.Ext(accepted[0]), ".zip") {
				return runArchiveUpload(cmd, cfg.Services.TranscriptionURL, pathFor(args, accepted[0]))
			}

			kv, err := store.NewFileKV(cfg.Store.Dir)
			if err != nil {
				return err
			}
			agg := store.New(kv, nil)

			batch, err := buildBatch(args, accepted)
			if err != nil {
				return err
			}

			runner := orchestration.NewBatchRunner(agg, grading.NewClient(cfg.Services.GradingURL))
			runner.OnProgress(func(ev orchestration.ProgressEvent) {
				if ev.EventType == orchestration.EventFileStart {
					fmt.Fprintf(cmd.OutOrStdout(), "Analyzing %s...\n", ev.Filename)
				}
			})

			outcome, err := runner.Run(cmd.Context(), batch)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), outcome.Summary())

			if outcome.SuccessCount == 0 && outcome.ErrorCount > 0 {
				return &BatchFailureError{Message: "all files failed grading"}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt for partially supported batches")

	return cmd
}

// buildBatch classifies the accepted filenames and loads transcript contents.
// Names that don't match the dispatcher convention are skipped without error.
func buildBatch(args, accepted []string) (orchestration.Batch, error) {
	var batch orchestration.Batch

	for _, c := range classifyAccepted(accepted) {
		item := orchestration.Item{Dispatcher: c.Dispatcher, Filename: c.Filename}
		if c.Category == classify.CategoryTranscript {
			content, err := os.ReadFile(pathFor(args, c.Filename))
			if err != nil {
				return orchestration.Batch{}, fmt.Errorf("reading %s: %w", c.Filename, err)
			}
			item.Content = content
			batch.Transcripts = append(batch.Transcripts, item)
		} else {
			batch.Audio = append(batch.Audio, item)
		}
	}
	return batch, nil
}

func classifyAccepted(accepted []string) []classify.Classified {
	classified := classify.ParseBatch(accepted)

	matched := make(map[string]bool, len(classified))
	for _, c := range classified {
		matched[c.Filename] = true
	}
	for _, name := range accepted {
		if !matched[name] {
			slog.Debug("filename does not match dispatcher convention, skipping", "file", name)
		}
	}
	return classified
}

// pathFor maps a base filename back to the full path the user passed.
func pathFor(args []string, name string) string {
	for _, p := range args {
		if filepath.Base(p) == name {
			return p
		}
	}
	return name
}

func runArchiveUpload(cmd *cobra.Command, baseURL, path string) error {
	count, err := transcription.InspectArchive(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Submitting %d file(s) for transcription...\n", count)

	ack, err := transcription.NewClient(baseURL).SubmitArchive(cmd.Context(), path)
	if err != nil {
		return err
	}
	if !ack.Success {
		return fmt.Errorf("transcription service rejected the archive: %s", ack.Message)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Archive accepted (job %s). Transcripts will be available for upload once processing completes.\n", ack.ID)
	return nil
}
