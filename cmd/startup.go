package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/mechanic/internal/startup"
)

var (
	startupFormat string
	startupPath   string
)

var startupCmd = &cobra.Command{
	Use:   "startup",
	Short: "Manage programs that run at logon",
	Long: `List and edit the current user's startup entries: values under the Run
registry key and files in the Startup folder.`,
}

var startupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List startup entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runStartupList(cmd.OutOrStdout(), newInventory(), startupFormat)
	},
}

var startupEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Add a registry startup entry",
	Long: `Write name under the Run key. A name that is not listed needs --path,
which is also how a disabled entry is brought back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStartupToggle(cmd.OutOrStdout(), newInventory(), args[0], startupPath, true)
	},
}

var startupDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Remove a registry startup entry from the Run key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStartupToggle(cmd.OutOrStdout(), newInventory(), args[0], "", false)
	},
}

var startupDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a startup entry, registry value or folder file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStartupDelete(cmd.OutOrStdout(), newInventory(), args[0])
	},
}

func init() {
	startupListCmd.Flags().StringVarP(&startupFormat, "format", "f", formatTable, "Output format: table, json or yaml")
	startupEnableCmd.Flags().StringVar(&startupPath, "path", "", "Command line to run at logon")

	startupCmd.AddCommand(startupListCmd)
	startupCmd.AddCommand(startupEnableCmd)
	startupCmd.AddCommand(startupDisableCmd)
	startupCmd.AddCommand(startupDeleteCmd)
}

func newInventory() *startup.Inventory {
	loc := locations()
	return startup.NewInventory(startup.NewUserRegistry(), loc.RunKey, loc.StartupFolder, slog.Default())
}

func runStartupList(out io.Writer, inv *startup.Inventory, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}

	items := inv.List()
	if format != formatTable {
		if items == nil {
			items = []startup.Item{}
		}
		return encode(out, format, items)
	}

	if len(items) == 0 {
		fmt.Fprintln(out, "  No startup entries.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Name", "Type", "Enabled", "Command"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	for _, it := range items {
		enabled := "yes"
		if !it.IsEnabled {
			enabled = "no"
		}
		table.Append([]string{it.Name, string(it.Type), enabled, it.Path})
	}
	table.Render()
	return nil
}

// runStartupToggle enables or disables name. An explicit path wins over the
// listed one so an entry can be re-pointed or restored after a disable.
func runStartupToggle(out io.Writer, inv *startup.Inventory, name, path string, enable bool) error {
	item, found := inv.Find(name)
	if !found {
		if !enable {
			return fmt.Errorf("no startup entry named %q", name)
		}
		if path == "" {
			return fmt.Errorf("no startup entry named %q; pass --path to create it", name)
		}
		item = startup.Item{Name: name, Type: startup.TypeRegistry, CanModify: true}
	}
	if path != "" {
		item.Path = path
	}

	if err := inv.Toggle(item, enable); err != nil {
		return err
	}

	verb := "Disabled"
	if enable {
		verb = "Enabled"
	}
	fmt.Fprintf(out, "  %s %s\n", verb, item.Name)
	return nil
}

func runStartupDelete(out io.Writer, inv *startup.Inventory, name string) error {
	item, found := inv.Find(name)
	if !found {
		return fmt.Errorf("no startup entry named %q", name)
	}

	inv.Delete(item)
	if _, still := inv.Find(name); still {
		return fmt.Errorf("startup entry %q could not be deleted; see the log for details", name)
	}
	fmt.Fprintf(out, "  Deleted %s\n", item.Name)
	return nil
}
