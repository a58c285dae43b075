package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerflow/ledgerflow-go/internal/config"
)

func newFolderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "folder [name]",
		Short: "Show or select the folder data operations are scoped to",
		Long: `Without arguments, prints the currently selected folder. With a name,
writes the selection to the config file so later commands use it. Folder
selection is independent of authentication.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFolder,
	}
}

func runFolder(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		if resolvedCfg.Folder == "" {
			fmt.Println("No folder selected")

			return nil
		}

		fmt.Println(resolvedCfg.Folder)

		return nil
	}

	if err := config.SetFolder(resolvedCfg.ConfigPath, args[0]); err != nil {
		return fmt.Errorf("selecting folder: %w", err)
	}

	statusf(flagQuiet, "Folder set to %s\n", args[0])

	return nil
}
