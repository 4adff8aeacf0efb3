package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-inject/framework/app"
)

var bootFirst bool

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "List the framework bindings and their state",
	RunE:  runBindings,
}

func init() {
	bindingsCmd.Flags().BoolVar(&bootFirst, "boot", false, "boot providers before listing")
	rootCmd.AddCommand(bindingsCmd)
}

func runBindings(cmd *cobra.Command, args []string) error {
	application, err := app.New(cfgPath, envFiles...)
	if err != nil {
		return err
	}
	if bootFirst {
		application.Boot()
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INTERFACE\tSTATE")
	for _, b := range application.Bindings() {
		fmt.Fprintf(w, "%s\t%s\n", b.Key, b.State)
	}
	return w.Flush()
}
