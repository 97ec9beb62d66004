package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/solatis/stepgrammar/internal/core/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate a service API token and its client key",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunToken(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

// RunToken prints a new SG_API_TOKEN value for the server and the matching
// x-api-key for clients.
func RunToken(w io.Writer) error {
	tok, err := auth.GenerateToken()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "SG_API_TOKEN=%s\n", tok.EnvValue())
	fmt.Fprintf(w, "x-api-key: %s\n", tok.APIKey())
	return nil
}
