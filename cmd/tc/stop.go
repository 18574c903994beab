package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/timeclock/entry"
	"github.com/amonks/timeclock/internal/editor"
	"github.com/amonks/timeclock/internal/ui"
	"github.com/amonks/timeclock/tracker"
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop [entry-id]",
	Short: "Clock out of the running entry with a comment",
	Long: `Clock out of the running entry with a comment.

Without --comment the comment is written in $EDITOR when stdin is a
terminal. An empty comment cancels the stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStop,
}

var stopComment string

func init() {
	rootCmd.AddCommand(stopCmd)
	stopCmd.Flags().StringVarP(&stopComment, "comment", "m", "", "Describe the work done")
}

func runStop(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.refresh(cmd.Context())
	if err != nil {
		return err
	}
	if !snap.State.Running() {
		return &tracker.ValidationError{Err: tracker.ErrNotRunning}
	}
	entryID := snap.State.EntryID
	if len(args) > 0 {
		entryID = entry.ID(strings.TrimSpace(args[0]))
	}

	capture := tracker.NewCommentCapture(s.tracker)
	if err := capture.Open(entryID); err != nil {
		return err
	}
	defer capture.Cancel()

	comment := stopComment
	if !cmd.Flags().Changed("comment") && editor.IsInteractive() {
		comment, err = editor.EditComment(editor.CommentData{
			EntryID:  entryID.String(),
			TaskName: snap.State.Task().Label(),
			Elapsed:  ui.FormatElapsed(snap.State.Elapsed(time.Now())),
		})
		if errors.Is(err, editor.ErrEmptyComment) {
			return &tracker.ValidationError{Err: fmt.Errorf("stop cancelled: %w", tracker.ErrCommentRequired)}
		}
		if err != nil {
			return err
		}
	}
	capture.SetText(comment)

	if _, err := capture.Submit(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stopped entry %s (%s)\n", entryID, snap.State.Task().Label())
	return nil
}
