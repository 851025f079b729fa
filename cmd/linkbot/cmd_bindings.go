package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/user/linkbot/internal/binding"
)

func init() {
	rootCmd.AddCommand(bindingsCmd)
	bindingsCmd.AddCommand(bindingsListCmd)
}

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "Inspect the binding store",
}

var bindingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all bindings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		snap := binding.NewStore(cfg.BindingsPath()).Load()

		if len(snap.ByUserID) == 0 {
			fmt.Fprintln(os.Stdout, "No bindings.")
			return nil
		}

		// Sort userIds for stable output
		ids := make([]string, 0, len(snap.ByUserID))
		for id := range snap.ByUserID {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			fmt.Fprintf(os.Stdout, "%s\t%s\n", snap.ByUserID[id].Name, id)
		}
		return nil
	},
}
