package main

import (
	"encoding/json"
	"fmt"

	"github.com/rendis/flowtree/internal/converter"
	"github.com/rendis/flowtree/internal/expressions"
	"github.com/rendis/flowtree/internal/loader"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query FILE EXPRESSION",
	Short: "Convert a process document and run a jq expression over the result",
	Long: `Converts the document and evaluates a jq expression against the
conversion output, an object of the form {"tree": ..., "info": ...}.

Examples:
  flowtree query process.json '.tree'
  flowtree query process.yaml '.info | keys'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := newLogger(cfg)

		ld, err := loader.New()
		if err != nil {
			return err
		}
		graph, err := ld.LoadFile(args[0])
		if err != nil {
			return err
		}

		opts := []converter.Option{converter.WithLogger(logger)}
		if cfg.StrictJoins {
			opts = append(opts, converter.WithStrictJoins())
		}
		tree, err := converter.Convert(graph, opts...)
		if err != nil {
			return err
		}

		raw, err := json.Marshal(tree)
		if err != nil {
			return err
		}
		var data map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			return err
		}

		out, err := expressions.NewGoJQEngine().Evaluate(cmd.Context(), args[1], data)
		if err != nil {
			return err
		}

		rendered, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(rendered))
		return err
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
