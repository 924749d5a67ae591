package main

import (
	"fmt"
	"os"

	"github.com/rendis/flowtree/internal/diagram"
	"github.com/rendis/flowtree/internal/loader"
	"github.com/spf13/cobra"
)

var diagramCmd = &cobra.Command{
	Use:   "diagram FILE",
	Short: "Render a process document as a Mermaid flowchart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		ld, err := loader.New(loader.WithoutValidation())
		if err != nil {
			return err
		}
		graph, err := ld.LoadFile(args[0])
		if err != nil {
			return err
		}

		rendered := diagram.RenderMermaid(diagram.Build(graph))

		if output != "" {
			return os.WriteFile(output, []byte(rendered), 0o644)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
		return err
	},
}

func init() {
	diagramCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(diagramCmd)
}
