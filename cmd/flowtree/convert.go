package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rendis/flowtree/internal/converter"
	"github.com/rendis/flowtree/internal/loader"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert a process document into an execution tree",
	Long: `Reads a process document (JSON or YAML), validates it, and converts it
into a nested execution tree plus a per-node metadata table. The result is
written as JSON to stdout or to --output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict-joins")
		pretty, _ := cmd.Flags().GetBool("pretty")
		output, _ := cmd.Flags().GetString("output")

		cfg := loadConfig()
		if strict {
			cfg.StrictJoins = true
		}
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

		var data []byte
		if pretty {
			data, err = json.MarshalIndent(tree, "", "  ")
		} else {
			data, err = json.Marshal(tree)
		}
		if err != nil {
			return err
		}
		data = append(data, '\n')

		if output != "" {
			return os.WriteFile(output, data, 0o644)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
		return err
	},
}

func init() {
	convertCmd.Flags().Bool("strict-joins", false, "fail when a split branch dead-ends before its join")
	convertCmd.Flags().Bool("pretty", false, "indent the JSON output")
	convertCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(convertCmd)
}
