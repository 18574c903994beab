package main

import (
	"fmt"
	"time"

	"github.com/amonks/timeclock/entry"
	"github.com/amonks/timeclock/internal/listflags"
	"github.com/amonks/timeclock/internal/ui"
	"github.com/amonks/timeclock/presenter"
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List assigned tasks",
	Args:  cobra.NoArgs,
	RunE:  runTasks,
}

var tasksJSON bool

func init() {
	rootCmd.AddCommand(tasksCmd)
	listflags.AddJSONFlag(tasksCmd, &tasksJSON)
}

type taskJSON struct {
	entry.AssignedTask
	Action presenter.Action `json:"action"`
}

func runTasks(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.refresh(cmd.Context())
	if err != nil {
		return err
	}
	view := presenter.Build(snap, presenter.Options{Location: s.loc, Now: time.Now()})

	if tasksJSON {
		items := make([]taskJSON, 0, len(view.Cards))
		for _, card := range view.Cards {
			items = append(items, taskJSON{AssignedTask: card.Task, Action: card.Action})
		}
		return encodeJSON(cmd.OutOrStdout(), items)
	}

	if len(view.Cards) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No assigned tasks")
		return nil
	}
	color := ui.ColorEnabled()
	builder := ui.NewTableBuilder([]string{"ID", "PROJECT", "TASK", "ACTION"}, len(view.Cards))
	for _, card := range view.Cards {
		builder.AddRow(card.Task.TaskID.String(), orDash(card.Task.ProjectName), card.Task.TaskName, ui.ActionLabel(card.Action, color))
	}
	fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return nil
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
