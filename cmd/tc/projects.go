package main

import (
	"fmt"
	"strings"

	"github.com/amonks/timeclock/entry"
	"github.com/amonks/timeclock/internal/listflags"
	"github.com/amonks/timeclock/internal/ui"
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects and tasks (admin)",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsCreate,
}

var projectsTasksCmd = &cobra.Command{
	Use:   "tasks <project-id>",
	Short: "List a project's tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsTasks,
}

var projectsAddTaskCmd = &cobra.Command{
	Use:   "add-task <project-id> <name>",
	Short: "Add a task to a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectsAddTask,
}

var projectsAssignCmd = &cobra.Command{
	Use:   "assign <task-id> <employee-user-id>",
	Short: "Assign a task to an employee",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectsAssign,
}

var projectsJSON bool

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd, projectsCreateCmd, projectsTasksCmd, projectsAddTaskCmd, projectsAssignCmd)
	listflags.AddJSONFlag(projectsListCmd, &projectsJSON)
	listflags.AddJSONFlag(projectsTasksCmd, &projectsJSON)
	listflags.AddJSONFlag(projectsCreateCmd, &projectsJSON)
	listflags.AddJSONFlag(projectsAddTaskCmd, &projectsJSON)
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	client, _, _, err := adminContext()
	if err != nil {
		return err
	}
	projects, err := client.ListProjects(cmd.Context())
	if err != nil {
		return err
	}
	if projectsJSON {
		return encodeJSON(cmd.OutOrStdout(), projects)
	}
	if len(projects) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No projects")
		return nil
	}
	builder := ui.NewTableBuilder([]string{"ID", "NAME", "ADMIN"}, len(projects))
	for _, project := range projects {
		builder.AddRow(project.ProjectID.String(), project.Name, orDash(project.AdminEmail))
	}
	fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return nil
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return validationf("project name is required")
	}
	client, account, _, err := adminContext()
	if err != nil {
		return err
	}
	project, err := client.CreateProject(cmd.Context(), account.UserID, name)
	if err != nil {
		return err
	}
	if projectsJSON {
		return encodeJSON(cmd.OutOrStdout(), project)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", project.ProjectID, project.Name)
	return nil
}

func runProjectsTasks(cmd *cobra.Command, args []string) error {
	client, _, _, err := adminContext()
	if err != nil {
		return err
	}
	tasks, err := client.ListProjectTasks(cmd.Context(), entry.ID(strings.TrimSpace(args[0])))
	if err != nil {
		return err
	}
	if projectsJSON {
		return encodeJSON(cmd.OutOrStdout(), tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
		return nil
	}
	builder := ui.NewTableBuilder([]string{"ID", "TASK", "ASSIGNED TO"}, len(tasks))
	for _, task := range tasks {
		builder.AddRow(task.TaskID.String(), task.Name, orDash(task.AssignedTo))
	}
	fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return nil
}

func runProjectsAddTask(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[1])
	if name == "" {
		return validationf("task name is required")
	}
	client, account, _, err := adminContext()
	if err != nil {
		return err
	}
	task, err := client.CreateTask(cmd.Context(), account.UserID, entry.ID(strings.TrimSpace(args[0])), name)
	if err != nil {
		return err
	}
	if projectsJSON {
		return encodeJSON(cmd.OutOrStdout(), task)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created task %s (%s)\n", task.TaskID, task.Name)
	return nil
}

func runProjectsAssign(cmd *cobra.Command, args []string) error {
	client, account, _, err := adminContext()
	if err != nil {
		return err
	}
	assignment, err := client.AssignTask(cmd.Context(), account.UserID, entry.ID(strings.TrimSpace(args[0])), entry.ID(strings.TrimSpace(args[1])))
	if err != nil {
		return err
	}
	if assignment.EmployeeName != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", assignment.Message, assignment.EmployeeName)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), assignment.Message)
	return nil
}
