package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dimerapp/config-parser/internal/document"
)

func initCmd(c *cli) *cobra.Command {
	var (
		domain    string
		overrides string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create dimer.json and docs/master",
		Long: `Write a default dimer.json into the project root and create the
docs/master directory. An existing dimer.json is never touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var doc *document.Map
			if overrides != "" {
				parsed, err := document.Decode([]byte(overrides))
				if err != nil {
					return fmt.Errorf("invalid --overrides: %w", err)
				}
				doc = parsed
			}
			if cmd.Flags().Changed("domain") {
				if doc == nil {
					doc = document.NewMap()
				}
				doc.Set("domain", domain)
			}

			created, err := c.parser.Init(cmd.Context(), doc)
			if err != nil {
				return err
			}

			path := c.parser.Paths.ConfigFile()
			data := map[string]any{"Path": path}
			if created {
				fmt.Fprintln(c.stdout, c.message("cli.init_created", data, "Created "+path))
			} else {
				fmt.Fprintln(c.stdout, c.message("cli.init_exists", data, path+" already exists, nothing to do"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "domain written into the new file")
	cmd.Flags().StringVar(&overrides, "overrides", "", "JSON object deep-merged over the default document")

	return cmd
}
