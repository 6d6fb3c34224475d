package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/edelweiss/pkg/resolver"
)

var (
	requestFile string
	minCoverage bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve one request file against the reference catalog and print the result.",
	Long: "Reads a resolution request (the POST /api/v1/resolve body) from --request or stdin, " +
		"resolves it offline and writes the resolution as JSON to stdout.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.loadReference(); err != nil {
			return err
		}

		var in io.Reader = cmd.InOrStdin()
		if requestFile != "" && requestFile != "-" {
			f, err := os.Open(requestFile)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		var req resolver.Request
		if err := json.NewDecoder(in).Decode(&req); err != nil {
			return fmt.Errorf("decoding request: %w", err)
		}
		if err := validator.New().Struct(req); err != nil {
			return err
		}

		svc := resolver.NewService(a.logger, a.store, a.registry, nil, nil, a.resolverConfig())
		resolution, err := svc.Resolve(cmd.Context(), req)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resolution); err != nil {
			return err
		}

		if !minCoverage {
			return nil
		}
		for _, kr := range resolution.Kinds() {
			if kr.Coverage.ExtractedCount > 0 && !kr.MeetsThreshold {
				return fmt.Errorf("%s coverage %.1f%% is below %.0f%%", kr.Kind, kr.Coverage.CoveragePercent, a.cfg.MinCoveragePercent)
			}
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&requestFile, "request", "r", "", "request JSON file (default stdin)")
	resolveCmd.Flags().BoolVar(&minCoverage, "fail-below-coverage", false, "exit non-zero when a kind misses the coverage threshold")
}
