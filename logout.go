package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerflow/ledgerflow-go/internal/config"
	"github.com/ledgerflow/ledgerflow-go/internal/credstore"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Args:  cobra.NoArgs,
		RunE:  runLogout,
	}
}

func runLogout(_ *cobra.Command, _ []string) error {
	store := credstore.NewStore(config.DefaultDataDir())

	if err := store.Delete(); err != nil {
		return fmt.Errorf("removing credentials: %w", err)
	}

	statusf(flagQuiet, "Logged out\n")

	return nil
}
