package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amonks/timeclock/entry"
	"github.com/amonks/timeclock/export"
	"github.com/amonks/timeclock/internal/listflags"
	"github.com/amonks/timeclock/internal/markdown"
	"github.com/amonks/timeclock/internal/ui"
	"github.com/amonks/timeclock/presenter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Inspect employees (admin)",
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	Args:  cobra.NoArgs,
	RunE:  runEmployeesList,
}

var employeesShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show an employee's entries grouped by day",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeesShow,
}

var employeesExportCmd = &cobra.Command{
	Use:   "export <user-id>",
	Short: "Write an employee's entries to an .xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeesExport,
}

var (
	employeesJSON bool
	showFlags     listflags.List
	exportOut     string
)

func init() {
	rootCmd.AddCommand(employeesCmd)
	employeesCmd.AddCommand(employeesListCmd, employeesShowCmd, employeesExportCmd)
	listflags.AddJSONFlag(employeesListCmd, &employeesJSON)
	listflags.AddDateFlags(employeesShowCmd, &showFlags)
	listflags.AddJSONFlag(employeesShowCmd, &showFlags.JSON)
	employeesExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default <name>_Task_Entries.xlsx)")
}

func runEmployeesList(cmd *cobra.Command, args []string) error {
	client, account, _, err := adminContext()
	if err != nil {
		return err
	}
	employees, err := client.ListEmployees(cmd.Context(), account.UserID)
	if err != nil {
		return err
	}
	if employeesJSON {
		return encodeJSON(cmd.OutOrStdout(), employees)
	}
	if len(employees) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No employees")
		return nil
	}

	now := time.Now()
	builder := ui.NewTableBuilder([]string{"USER", "EMPLOYEE ID", "NAME", "EMAIL", "DESIGNATION", "ENTRIES", "HOURS"}, len(employees))
	for _, employee := range employees {
		var total time.Duration
		for _, item := range employee.Entries {
			total += entry.Elapsed(item, now)
		}
		builder.AddRow(
			employee.UserID.String(),
			orDash(employee.EmployeeID),
			employee.Name,
			employee.Email,
			orDash(employee.Designation),
			fmt.Sprint(len(employee.Entries)),
			fmt.Sprintf("%.2f", entry.Hours(total)),
		)
	}
	fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return nil
}

func runEmployeesShow(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := adminContext()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now := time.Now()
	from, to, err := showFlags.Range(loc, now)
	if err != nil {
		return validationf("%v", err)
	}

	employee, err := client.Employee(cmd.Context(), entry.ID(strings.TrimSpace(args[0])))
	if err != nil {
		return err
	}
	entries := presenter.SortNewestFirst(presenter.FilterDateRange(employee.Entries, from, to, loc))
	if showFlags.JSON {
		employee.Entries = entries
		return encodeJSON(cmd.OutOrStdout(), employee)
	}

	doc := employeeMarkdown(employee, presenter.GroupByDate(entries, loc), loc, now)
	fmt.Fprintln(cmd.OutOrStdout(), string(markdown.Render(terminalWidth(), 0, []byte(doc))))
	return nil
}

func employeeMarkdown(employee entry.Employee, groups []presenter.DayGroup, loc *time.Location, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", employee.Name)
	fmt.Fprintf(&b, "- Email: %s\n", employee.Email)
	if employee.Designation != "" {
		fmt.Fprintf(&b, "- Designation: %s\n", employee.Designation)
	}
	if employee.EmployeeID != "" {
		fmt.Fprintf(&b, "- Employee ID: %s\n", employee.EmployeeID)
	}
	if len(groups) == 0 {
		b.WriteString("\nNo entries.\n")
		return b.String()
	}
	for _, group := range groups {
		fmt.Fprintf(&b, "\n## %s (%.2fh)\n\n", ui.FormatDay(group.Date), group.Hours(now))
		for _, item := range group.Entries {
			end := "running"
			if item.EndTime != nil {
				end = item.EndTime.In(loc).Format("15:04")
			}
			fmt.Fprintf(&b, "- **%s** %s to %s, %s",
				orDash(item.Label()),
				item.StartTime.In(loc).Format("15:04"),
				end,
				ui.FormatElapsed(entry.Elapsed(item, now)),
			)
			if comment := strings.TrimSpace(item.Comment); comment != "" {
				fmt.Fprintf(&b, ": %s", strings.ReplaceAll(comment, "\n", " "))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func runEmployeesExport(cmd *cobra.Command, args []string) error {
	client, _, cfg, err := adminContext()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	employee, err := client.Employee(cmd.Context(), entry.ID(strings.TrimSpace(args[0])))
	if err != nil {
		return err
	}
	if len(employee.Entries) == 0 {
		return validationf("%s: %v", employee.Name, export.ErrNoEntries)
	}

	path := exportOut
	if path == "" {
		path = export.FileName(employee)
	}
	if err := writeWorkbook(path, employee.Entries, loc); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s\n", len(employee.Entries), path)
	return nil
}

func writeWorkbook(path string, entries []entry.Entry, loc *time.Location) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return export.WriteEntries(file, entries, export.Options{Location: loc})
}

func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return min(width, 100)
	}
	return 80
}
