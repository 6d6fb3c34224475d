package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/edelweiss/pkg/resolver"
	"github.com/Ramsey-B/edelweiss/pkg/runner"
)

var (
	checkParallel int
	checkVerbose  bool
	checkFormat   string
)

var checkCmd = &cobra.Command{
	Use:   "check [scenario files or globs...]",
	Short: "Run YAML resolution scenarios against the reference catalog.",
	Long: "Each scenario holds a request and the coverage and matches its resolution must reach. " +
		"The command exits non-zero when any scenario fails.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkFormat != "text" && checkFormat != "json" {
			return fmt.Errorf("unknown format %q", checkFormat)
		}

		files, err := expandFiles(args)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.loadReference(); err != nil {
			return err
		}

		svc := resolver.NewService(a.logger, a.store, a.registry, nil, nil, a.resolverConfig())

		var progress io.Writer
		if checkFormat == "text" {
			progress = cmd.OutOrStdout()
		}
		result := runner.New(svc, progress).Run(cmd.Context(), runner.Config{
			Files:        files,
			Verbose:      checkVerbose,
			ShowFailures: true,
			Parallel:     checkParallel,
		})

		if checkFormat == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d scenarios, %d passed, %d failed\n", result.Total, result.Passed, result.Failed)
		}

		if result.Failed > 0 {
			return fmt.Errorf("%d of %d scenarios failed", result.Failed, result.Total)
		}
		return nil
	},
}

// expandFiles resolves glob arguments. A pattern without matches is an error.
func expandFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no scenario files match %s", arg)
		}
		for _, m := range matches {
			if !slices.Contains(files, m) {
				files = append(files, m)
			}
		}
	}
	return files, nil
}

func init() {
	checkCmd.Flags().IntVarP(&checkParallel, "parallel", "p", 0, "number of scenarios run concurrently (0 = sequential)")
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "print scenario descriptions")
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "report format: text or json")
}
