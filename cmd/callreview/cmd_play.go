package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cs4273g/callreview/internal/models"
	"github.com/cs4273g/callreview/internal/playback"
	"github.com/cs4273g/callreview/internal/transcripts"
)

func newPlayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <transcription-id>",
		Short: "Replay a call transcript in real time",
		Long: `Replay a call transcript in real time.

Fetches the transcription from the transcription service and prints each
segment as the playback clock reaches it, the way the call unfolded.
Press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			res, err := transcripts.NewClient(cfg.Services.TranscriptionURL).Fetch(cmd.Context(), args[0])
			if errors.Is(err, transcripts.ErrNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "No transcription found for %q.\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			segments := res.Transcript.Segments
			if len(segments) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Transcript %s has no segments.\n", args[0])
				return nil
			}

			if res.Filename != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Playing %s (%d segments)\n\n", res.Filename, len(segments))
			}

			interval := time.Duration(cfg.Playback.TickMillis) * time.Millisecond
			return runPlayback(cmd, segments, interval)
		},
	}

	return cmd
}

func runPlayback(cmd *cobra.Command, segments []models.Segment, interval time.Duration) error {
	end := segments[len(segments)-1].End

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	player := playback.NewSynchronizer()
	player.SetTranscript(segments)

	start := time.Now()
	position := func() float64 {
		t := time.Since(start).Seconds()
		if t > end {
			cancel()
		}
		return t
	}

	player.Run(ctx, interval, position, func(u playback.Update) {
		if !u.HasSegment {
			return
		}
		seg := segments[u.Index]
		if seg.Speaker != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "[%7.2fs] %s: %s\n", seg.Start, seg.Speaker, seg.Text)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "[%7.2fs] %s\n", seg.Start, seg.Text)
		}
	})

	return nil
}
