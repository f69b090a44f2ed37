// Command ovalctl inspects the variant registry and the property
// classification without starting the editor service.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:          "ovalctl",
		Short:        "Inspect OVAL variants and property classification",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.extensions, "extensions", "", "YAML file with extra variants and classification rules")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")

	root.AddCommand(
		newVariantsCmd(&opts),
		newPropertiesCmd(&opts),
		newClassifyCmd(&opts),
	)
	return root
}
