package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/solatis/stepgrammar/internal/core/api"
	"github.com/solatis/stepgrammar/internal/intent"
	"github.com/solatis/stepgrammar/internal/rules"
	"github.com/solatis/stepgrammar/internal/ui"
)

var matchJSON bool

var matchCmd = &cobra.Command{
	Use:   "match <sentence...>",
	Short: "Match one step sentence and print its intent",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, engine, err := newEngine()
		if err != nil {
			return err
		}
		return RunMatch(cmd.OutOrStdout(), engine, strings.Join(args, " "), matchJSON)
	},
}

func init() {
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(matchCmd)
}

// RunMatch matches sentence and prints the result. Unmatched sentences are
// reported, not returned as errors.
func RunMatch(w io.Writer, engine *rules.Engine, sentence string, asJSON bool) error {
	res := engine.Match(sentence)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(api.ResultMap(res))
	}

	ui.MatchLine(w, res)
	if !res.Matched() {
		return nil
	}
	ui.ParamsBlock(w, res)

	payload, err := intent.Decode(res.Intent)
	if err != nil {
		ui.Warn(w, "typed decode: %v", err)
		return nil
	}
	fmt.Fprintf(w, "    kind: %s\n", payload.Kind())
	return nil
}
