package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"oval-editor/internal/classify"
	"oval-editor/internal/models"
	"oval-editor/internal/registry"
)

type options struct {
	extensions string
	json       bool
}

// load builds the registry and table, applying --extensions when given.
func (o *options) load() (*registry.Registry, *classify.Table, error) {
	reg := registry.New()
	table := classify.New()
	if o.extensions == "" {
		return reg, table, nil
	}
	ext, err := registry.LoadExtensions(o.extensions)
	if err != nil {
		return nil, nil, err
	}
	if err := ext.Apply(reg, table); err != nil {
		return nil, nil, err
	}
	return reg, table, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVariantsCmd(opts *options) *cobra.Command {
	var (
		kind string
		all  bool
	)
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "List the variants of a kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := models.ParseBaseKind(kind)
			if !ok {
				return fmt.Errorf("unknown kind %q", kind)
			}
			reg, _, err := opts.load()
			if err != nil {
				return err
			}

			var list []*registry.Variant
			if all {
				list = reg.Variants(k)
			} else {
				available := reg.Available(k)
				for _, f := range models.Families {
					list = append(list, available[f]...)
				}
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, list)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FAMILY\tNAME\tTITLE\tDEPRECATED")
			for _, v := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", v.Family, v.Name, v.FriendlyName(), v.Deprecated)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "test", "test, object, state or variable")
	cmd.Flags().BoolVar(&all, "all", false, "include deprecated variants")
	return cmd
}

type propertyRow struct {
	Name     string             `json:"name"`
	Datatype models.Datatype    `json:"datatype"`
	Wrapper  models.WrapperKind `json:"wrapper"`
}

func newPropertiesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "properties <variant>",
		Short: "Show the properties of a variant in schema order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, table, err := opts.load()
			if err != nil {
				return err
			}
			v, ok := reg.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown variant %q", args[0])
			}

			rows := make([]propertyRow, 0, len(v.Properties))
			for _, p := range v.Properties {
				rows = append(rows, propertyRow{Name: p.Name, Datatype: p.Datatype, Wrapper: table.Classify(p.Name, v.Name, v.Kind)})
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, rows)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PROPERTY\tDATATYPE\tWRAPPER")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Datatype, r.Wrapper)
			}
			if v.Behaviors {
				fmt.Fprintf(tw, "behaviors\t\t%v\n", models.BehaviorsShapeFor(v.Name).Keys())
			}
			return tw.Flush()
		},
	}
}

func newClassifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <variant> <property>",
		Short: "Print the wrapper kind a property resolves to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, table, err := opts.load()
			if err != nil {
				return err
			}
			v, ok := reg.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown variant %q", args[0])
			}
			if v.Kind != models.KindObject && v.Kind != models.KindState {
				return fmt.Errorf("%s is a %s; only objects and states have wrapped properties", v.Name, v.Kind)
			}
			w := table.Classify(args[1], v.Name, v.Kind)
			if opts.json {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"variant": v.Name, "property": args[1], "wrapper": w, "supported": v.Supports(args[1]),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), w)
			if !v.Supports(args[1]) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s has no property %q\n", v.Name, args[1])
			}
			return nil
		},
	}
}
