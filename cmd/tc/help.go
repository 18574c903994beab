package main

import (
	"fmt"
	"strings"

	"github.com/amonks/timeclock/internal/config"
	"github.com/amonks/timeclock/internal/markdown"
	"github.com/amonks/timeclock/internal/paths"
	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Help about any command",
	Args:  cobra.ArbitraryArgs,
	RunE:  runHelp,
}

var helpConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration files and keys",
	Args:  cobra.NoArgs,
	RunE:  runHelpConfig,
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
	helpCmd.AddCommand(helpConfigCmd)
}

func runHelp(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	if len(args) == 0 {
		return root.Help()
	}

	target, _, err := root.Find(args)
	if err != nil || target == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown help topic %q\n", strings.Join(args, " "))
		return root.Help()
	}

	return target.Help()
}

func runHelpConfig(cmd *cobra.Command, args []string) error {
	doc := fmt.Sprintf(`# Configuration

Settings are read from %s and then from ./%s, where
project values win. $%s overrides the service URL.

- api.url: task service URL (default %s)
- api.timeout: request timeout (default %s)
- display.page-size: entries per page (default %d)
- display.timezone: IANA zone used to group entries by day (default local)
- server.addr: tc serve listen address (default %s)
- server.state-dir: tc serve state directory (default %s)

The signed-in account is kept in %s.
`,
		paths.GlobalConfigPath(), config.ProjectFile, config.APIURLEnv,
		config.DefaultAPIURL, config.DefaultTimeout, config.DefaultPageSize,
		config.DefaultServerAddr, paths.DefaultServerStateDir(),
		paths.DefaultStateDir(),
	)
	fmt.Fprintln(cmd.OutOrStdout(), string(markdown.Render(terminalWidth(), 0, []byte(doc))))
	return nil
}
