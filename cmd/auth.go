package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veranek/workspace-mcp/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google account",
		Long: `Authorize a Google account for use by the MCP server.

Prints an authorization URL, then exchanges the pasted authorization code
for a token stored under the user cache directory. Requires the
GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables.

Multiple accounts can be authorized by repeating the command with
different --account values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, account)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name to store the token under")

	return cmd
}

func runAuth(cmd *cobra.Command, account string) error {
	if google.HasTokenForAccount(account) {
		fmt.Fprintf(cmd.OutOrStdout(), "Account %q is already authorized. Continuing will replace its token.\n\n", account)
	}

	url, err := google.AuthURL()
	if err != nil {
		return fmt.Errorf("failed to build authorization URL: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Open the following URL in your browser and approve access:\n\n%s\n\nPaste the authorization code here: ", url)

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("no authorization code provided")
	}

	if err := google.SaveToken(cmd.Context(), account, code); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Account %q authorized.\n", account)
	return nil
}
