package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"

	"github.com/dimerapp/config-parser/internal/dimer"
	"github.com/dimerapp/config-parser/internal/document"
)

func parseCmd(c *cli) *cobra.Command {
	var (
		format      string
		allowErrors bool
		raw         bool
	)

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Normalize and validate dimer.json",
		Long: `Print {"errors": [...], "config": {...}} for the project's dimer.json.
The command fails when validation errors are found, unless --allow-errors is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q (json, yaml)", format)
			}

			result, err := c.parser.Parse(cmd.Context())
			if err != nil {
				return err
			}

			out := result
			if raw && result.Config != nil {
				out = &dimer.Result{Errors: result.Errors, Raw: result.Config.Raw()}
			}
			if err := writeResult(c.stdout, format, out); err != nil {
				return err
			}

			path := c.parser.Paths.ConfigFile()
			if result.Valid() {
				fmt.Fprintln(c.stderr, c.message("cli.parse_valid", map[string]any{"Path": path}, path+" is valid"))
				return nil
			}
			summary := c.message("cli.parse_invalid", map[string]any{"Path": path, "Count": len(result.Errors)},
				fmt.Sprintf("%s has %d problem(s)", path, len(result.Errors)))
			if allowErrors {
				fmt.Fprintln(c.stderr, summary)
				return nil
			}
			return errors.New(summary)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().BoolVar(&allowErrors, "allow-errors", false, "exit zero even when validation errors are found")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the config in dimer.json form instead of the normalized shape")

	return cmd
}

func writeResult(w io.Writer, format string, result *dimer.Result) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	data, err := document.MarshalIndent(result)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = w.Write(data)
	return err
}
