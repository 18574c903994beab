package main

import (
	"fmt"
	"strings"

	"github.com/amonks/timeclock/entry"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Clock in to an assigned task",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStart,
}

var startTaskName string

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().StringVar(&startTaskName, "name", "", "Task name, when no id is known")
}

func runStart(cmd *cobra.Command, args []string) error {
	ref := entry.TaskRef{Name: strings.TrimSpace(startTaskName)}
	if len(args) > 0 {
		ref.ID = strings.TrimSpace(args[0])
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.refresh(cmd.Context())
	if err != nil {
		return err
	}
	if ref.ID != "" && ref.Name == "" {
		for _, task := range snap.Tasks {
			if task.TaskID.String() == ref.ID {
				ref.Name = task.TaskName
				break
			}
		}
	}

	state, err := s.tracker.StartTask(cmd.Context(), ref)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Started entry %s (%s)\n", state.EntryID, state.Task().Label())
	return nil
}
