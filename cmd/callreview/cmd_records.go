package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cs4273g/callreview/internal/models"
	"github.com/cs4273g/callreview/internal/store"
)

func newRecordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records [dispatcher]",
		Short: "Show stored dispatcher records and grades",
		Long: `Show stored dispatcher records and grades.

Without arguments, prints a table of every dispatcher with file counts and
the overall grade. With a dispatcher name, prints that dispatcher's full
record including per-question grading detail for each transcript.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			kv, err := store.NewFileKV(cfg.Store.Dir)
			if err != nil {
				return err
			}
			agg := store.New(kv, nil)

			if len(args) == 1 {
				return printDispatcherDetail(cmd, agg, args[0])
			}
			return printDispatcherTable(cmd, agg)
		},
	}

	return cmd
}

func printDispatcherTable(cmd *cobra.Command, agg *store.AggregateStore) error {
	dispatchers, err := agg.Load()
	if err != nil {
		return err
	}
	if len(dispatchers) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No dispatcher records yet. Run `callreview upload` first.")
		return nil
	}

	sort.Slice(dispatchers, func(i, j int) bool {
		return dispatchers[i].Name < dispatchers[j].Name
	})

	const (
		nameWidth  = 24
		colCount   = 12
		colOverall = 10
	)

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s %s\n",
		padRight("Dispatcher", nameWidth),
		padRight("Transcripts", colCount),
		padRight("Audio", colCount),
		padRight("Graded", colCount),
		padRight("Overall", colOverall),
	)

	for i := range dispatchers {
		d := &dispatchers[i]

		graded := 0
		for _, f := range d.Files.TranscriptFiles {
			if d.Grades[f] != nil {
				graded++
			}
		}

		overall := "n/a"
		if grade, ok := store.OverallGrade(d); ok {
			overall = fmt.Sprintf("%.1f%%", grade)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s %s\n",
			padRight(truncateName(d.Name, nameWidth), nameWidth),
			padRight(fmt.Sprintf("%d", len(d.Files.TranscriptFiles)), colCount),
			padRight(fmt.Sprintf("%d", len(d.Files.AudioFiles)), colCount),
			padRight(fmt.Sprintf("%d", graded), colCount),
			padRight(overall, colOverall),
		)
	}
	return nil
}

func printDispatcherDetail(cmd *cobra.Command, agg *store.AggregateStore, name string) error {
	d, err := agg.Get(name)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Dispatcher: %s (%s)\n", d.Name, d.ID)

	overall := "n/a"
	if grade, ok := store.OverallGrade(d); ok {
		overall = fmt.Sprintf("%.1f%%", grade)
	}
	fmt.Fprintf(out, "Overall grade: %s\n", overall)

	if len(d.Files.AudioFiles) > 0 {
		fmt.Fprintln(out, "\nAudio files:")
		for _, f := range d.Files.AudioFiles {
			fmt.Fprintf(out, "  %s\n", f)
		}
	}

	fmt.Fprintln(out, "\nTranscript files:")
	if len(d.Files.TranscriptFiles) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, f := range d.Files.TranscriptFiles {
		grade, attempted := d.Grades[f]
		switch {
		case grade != nil:
			fmt.Fprintf(out, "  %s: %.1f%%", f, grade.GradePercentage)
			if grade.DetectedNatureCode != "" {
				fmt.Fprintf(out, " (nature code %s)", grade.DetectedNatureCode)
			}
			fmt.Fprintln(out)
			printPerQuestion(cmd, grade)
		case attempted:
			fmt.Fprintf(out, "  %s: grading failed\n", f)
		default:
			fmt.Fprintf(out, "  %s: not graded\n", f)
		}
	}
	return nil
}

func printPerQuestion(cmd *cobra.Command, grade *models.FileGrade) {
	if len(grade.PerQuestion) == 0 {
		return
	}

	ids := make([]string, 0, len(grade.PerQuestion))
	for id := range grade.PerQuestion {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		q := grade.PerQuestion[id]
		status := q.Status
		if status == "" {
			status = models.StatusLabels[q.Code]
		}
		label := q.Label
		if label == "" {
			label = id
		}
		fmt.Fprintf(cmd.OutOrStdout(), "      %s %s\n",
			padRight(truncateName(label, 40), 40), status)
	}
}
