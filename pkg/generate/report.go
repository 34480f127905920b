package generate

import (
	"fmt"
	"io"
)

const separator = "----------------------------------------"

// Print writes the operator-facing summary: one block per output file with
// installation instructions, then the lists that could not be retrieved.
func (r *Report) Print(w io.Writer) error {
	for _, result := range r.Outputs {
		if _, err := fmt.Fprintf(w, "%s\nAdded %d unique domains to the sinkhole file %s\nDNS sinkhole file %s generated successfully.\n%s\n",
			separator, result.Lines, result.Path, result.Path, result.Usage); err != nil {
			return err
		}
	}

	if len(r.Failed) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Warning: could not get data for the following blocklists:"); err != nil {
		return err
	}
	for _, name := range r.Failed {
		if _, err := fmt.Fprintf(w, "\t%s\n", name); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
