package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/ui"
)

var rulesDomain string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List rules in match order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := newRegistry(cfg.Grammar, logger)
		if err != nil {
			return err
		}
		return RunRules(cmd.OutOrStdout(), reg, rulesDomain)
	},
}

func init() {
	rulesCmd.Flags().StringVar(&rulesDomain, "domain", "", "only list rules of this domain")
	rootCmd.AddCommand(rulesCmd)
}

// RunRules prints every rule of reg, or of one domain, in priority order.
func RunRules(w io.Writer, reg *rules.Registry, domain string) error {
	if domain != "" {
		if _, ok := reg.Bands()[rules.Domain(domain)]; !ok {
			return fmt.Errorf("unknown grammar domain %q", domain)
		}
	}
	n := 0
	for _, r := range reg.Rules() {
		if domain != "" && string(r.Domain) != domain {
			continue
		}
		ui.RuleLine(w, r)
		n++
	}
	fmt.Fprintf(w, "%d rules\n", n)
	return nil
}
