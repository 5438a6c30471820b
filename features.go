package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ecordell/unstablegen/generate"
)

func newFeaturesCmd(f *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "features [flags] [dir...]",
		Short: "List the unstable features and the items they gate",
		Long: "List every item marked with //unstable:api, grouped by feature, with the\n" +
			"build tag that enables it. Nothing is written.",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "json", "yaml":
			default:
				return report(cmd.ErrOrStderr(), fmt.Errorf("unknown format %q (expected text, json or yaml)", format))
			}
			cfg, err := f.load(cmd)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			cfg.DryRun = true

			res, err := generate.New(cfg).Run(cmd.Context(), args...)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			printWarnings(cmd.ErrOrStderr(), res.Warnings)
			return writeFeatures(cmd.OutOrStdout(), format, res.Features())
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json or yaml")
	return cmd
}

func writeFeatures(w io.Writer, format string, features []generate.Feature) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if features == nil {
			features = []generate.Feature{}
		}
		return enc.Encode(features)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(features); err != nil {
			return err
		}
		return enc.Close()
	}

	for _, feat := range features {
		fmt.Fprintf(w, "%s (build tag %s)\n", feat.Name, feat.Tag)
		if len(feat.Issues) > 0 {
			fmt.Fprintf(w, "  tracking: %s\n", strings.Join(feat.Issues, ", "))
		}
		for _, it := range feat.Items {
			name := it.Name
			if it.Receiver != "" {
				name = it.Receiver + "." + name
			}
			fmt.Fprintf(w, "  %-10s %-30s %s\n", it.Kind, name, it.Pos)
		}
	}
	return nil
}
