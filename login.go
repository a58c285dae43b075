package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerflow/ledgerflow-go/internal/config"
	"github.com/ledgerflow/ledgerflow-go/internal/credstore"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [exchange-token]",
		Short: "Authenticate with a one-time exchange token",
		Long: `Exchange a one-time token (issued from the LedgerFlow web console) for an
access/refresh token pair and store it for later commands.

The account email comes from --email, the LEDGERFLOW_EMAIL environment
variable, or the config file. When the exchange token is not given as an
argument it is read from stdin so it stays out of shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "account email (overrides config)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	logger := buildLogger()

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = resolvedCfg.Email
	}

	if email == "" {
		return fmt.Errorf("no account email: pass --email, set %s, or add email to the config file", config.EnvEmail)
	}

	exchangeToken, err := readExchangeToken(args)
	if err != nil {
		return err
	}

	sess, store, err := newSession(logger)
	if err != nil {
		return err
	}

	pair, err := sess.Authenticate(cmd.Context(), email, exchangeToken)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := store.Save(&credstore.Credentials{
		Email:        email,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	statusf(flagQuiet, "Logged in as %s\n", email)

	return nil
}

// readExchangeToken takes the token from the argument when given, otherwise
// prompts on stderr and reads one line from stdin.
func readExchangeToken(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	fmt.Fprint(os.Stderr, "Exchange token: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading exchange token: %w", err)
	}

	token := strings.TrimSpace(line)
	if token == "" {
		return "", fmt.Errorf("empty exchange token")
	}

	return token, nil
}
