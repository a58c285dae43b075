package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerflow/ledgerflow-go/internal/config"
	"github.com/ledgerflow/ledgerflow-go/internal/credstore"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account and selected folder",
		Args:  cobra.NoArgs,
		RunE:  runWhoami,
	}
}

func runWhoami(_ *cobra.Command, _ []string) error {
	store := credstore.NewStore(config.DefaultDataDir())

	creds, err := store.Load()
	if err != nil {
		return err
	}

	email := ""
	if creds != nil {
		email = creds.Email
	}

	if flagJSON {
		out := map[string]any{
			"email":         email,
			"authenticated": creds != nil,
			"folder":        resolvedCfg.Folder,
		}

		enc := json.NewEncoder(os.Stdout)

		return enc.Encode(out)
	}

	if creds == nil {
		fmt.Println("Not logged in")

		return nil
	}

	fmt.Printf("Logged in as %s\n", email)

	if resolvedCfg.Folder == "" {
		fmt.Println("No folder selected")
	} else {
		fmt.Printf("Folder: %s\n", resolvedCfg.Folder)
	}

	return nil
}
