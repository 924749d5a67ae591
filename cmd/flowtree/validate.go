package main

import (
	"fmt"
	"os"

	"github.com/rendis/flowtree/internal/loader"
	"github.com/rendis/flowtree/internal/validation"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a process document for consistency",
	Long: `Runs the full validation pipeline (structure, semantics, graph shape)
against a process document and reports every issue found.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, path string) error {
	// Skip the loader's own validation pass; the point here is to report
	// every issue, not to stop at the first one.
	ld, err := loader.New(loader.WithoutValidation())
	if err != nil {
		return err
	}
	graph, err := ld.LoadFile(path)
	if err != nil {
		return err
	}

	gv, err := validation.NewGraphValidator()
	if err != nil {
		return err
	}
	result := gv.Validate(graph)

	out := cmd.OutOrStdout()
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "warning: %s: [%s] %s\n", w.Path, w.Code, w.Message)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(out, "error: %s: [%s] %s\n", e.Path, e.Code, e.Message)
	}

	if !result.Valid() {
		return fmt.Errorf("%d error(s)", len(result.Errors))
	}
	fmt.Fprintln(out, "Process document is valid.")
	return nil
}
