package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// statusf prints a status message to stderr unless quiet mode is set.
func statusf(quiet bool, format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// prettyOutput reports whether JSON should be indented: interactive
// terminals get pretty output, pipes and --json get the compact form.
func prettyOutput() bool {
	if flagJSON {
		return false
	}

	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// printJSON writes a raw JSON payload to w, indented when pretty is set.
// The payload is passed through as-is otherwise — no decode/re-encode that
// could reorder keys or mangle numbers.
func printJSON(w io.Writer, raw []byte, pretty bool) error {
	if !pretty {
		_, err := fmt.Fprintf(w, "%s\n", raw)

		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("formatting response: %w", err)
	}

	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())

	return err
}
