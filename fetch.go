package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <object-model-namespace>",
		Short: "Fetch all objects of a namespace in the selected folder",
		Long: `Fetch every object of the given object-model namespace (e.g. Sale,
Purchase, Contact) scoped to the selected folder. Prints the JSON payload;
prints nothing when the folder holds no such objects.`,
		Args: cobra.ExactArgs(1),
		RunE: runList,
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <object-model> <code>",
		Short: "Fetch a single object by code in the selected folder",
		Args:  cobra.ExactArgs(2),
		RunE:  runGet,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	sess, _, err := newSession(buildLogger())
	if err != nil {
		return err
	}

	raw, err := sess.All(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if raw == nil {
		statusf(flagQuiet, "No %s objects in folder %s\n", args[0], sess.Folder())

		return nil
	}

	return printJSON(os.Stdout, raw, prettyOutput())
}

func runGet(cmd *cobra.Command, args []string) error {
	sess, _, err := newSession(buildLogger())
	if err != nil {
		return err
	}

	raw, err := sess.Get(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	if raw == nil {
		return fmt.Errorf("no %s object with code %s in folder %s", args[0], args[1], sess.Folder())
	}

	return printJSON(os.Stdout, raw, prettyOutput())
}
