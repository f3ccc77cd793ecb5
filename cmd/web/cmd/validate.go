package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stiventours.com/pasadias/internal/catalog"
)

// ErrInvalidEntries is returned when a catalog has rejected entries.
var ErrInvalidEntries = errors.New("catalog has invalid entries")

func newValidateCommand() *cobra.Command {
	var (
		catalogURL string
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a catalog document before publishing it",
		Long: `Check every pasadía in a catalog document against the required fields
(id, title, price, currency, image, short, features, long) and report which
entries would be hidden from the site.

Exits non-zero when the document cannot be read or any entry is rejected.

Examples:
  pasadias validate public/static/data.json
  pasadias validate --url https://stiventours.com/data.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				payload catalog.Payload
				err     error
			)
			switch {
			case catalogURL != "" && len(args) > 0:
				return errors.New("pass either a file or --url, not both")
			case catalogURL != "":
				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				payload, err = catalog.NewFetcher(catalogURL, &http.Client{Timeout: timeout}).Fetch(ctx)
			case len(args) == 1:
				payload, err = readCatalogFile(args[0])
			default:
				return errors.New("a catalog file or --url is required")
			}
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), catalog.Validate(payload))
		},
	}
	cmd.Flags().StringVar(&catalogURL, "url", "", "fetch the catalog from this http(s) URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "fetch timeout")
	return cmd
}

func readCatalogFile(path string) (catalog.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Payload{}, fmt.Errorf("read catalog: %w", err)
	}
	return catalog.Parse(data)
}

func report(out io.Writer, res catalog.Result) error {
	fmt.Fprintf(out, "entries:  %d\n", res.Total())
	fmt.Fprintf(out, "valid:    %d\n", len(res.Valid))
	fmt.Fprintf(out, "rejected: %d\n", len(res.Rejected))
	for _, rej := range res.Rejected {
		fmt.Fprintf(out, "  %s: missing %s\n", rej.ID, strings.Join(rej.Missing, ", "))
	}
	if len(res.Rejected) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidEntries, strings.Join(res.RejectedIDs(), ", "))
	}
	return nil
}
