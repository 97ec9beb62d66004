package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the registry and run every rule's examples",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := newRegistry(cfg.Grammar, logger)
		if err != nil {
			return err
		}
		return RunCheck(cmd.OutOrStdout(), reg)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// RunCheck prints bands, collisions and example failures. Any example that
// does not resolve to its own rule fails the check.
func RunCheck(w io.Writer, reg *rules.Registry) error {
	perDomain := make(map[rules.Domain]int)
	examples := 0
	for _, r := range reg.Rules() {
		perDomain[r.Domain]++
		examples += len(r.Examples)
	}

	bands := reg.Bands()
	domains := make([]rules.Domain, 0, len(perDomain))
	for d := range perDomain {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool { return bands[domains[i]].Min < bands[domains[j]].Min })
	for _, d := range domains {
		fmt.Fprintf(w, "%-10s %-9s %3d rules\n", d, bands[d], perDomain[d])
	}

	for _, c := range reg.Collisions() {
		ui.Warn(w, "%s", c)
	}

	failures := reg.CheckExamples()
	for _, f := range failures {
		ui.Fail(w, "%s", f)
	}

	fmt.Fprintf(w, "%d rules, %d examples, %d collisions, %d failures\n",
		reg.Len(), examples, len(reg.Collisions()), len(failures))
	if len(failures) > 0 {
		return fmt.Errorf("%d examples do not resolve to their own rule", len(failures))
	}
	return nil
}
