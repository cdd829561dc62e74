package lookupcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/PratikDhanave/lodging-intake-service/cmd/intake/serverflag"
	"github.com/PratikDhanave/lodging-intake-service/internal/address"
	"github.com/PratikDhanave/lodging-intake-service/internal/client"
	"github.com/PratikDhanave/lodging-intake-service/internal/models"
	"github.com/PratikDhanave/lodging-intake-service/internal/postal"
)

const lookupLongDesc string = `Resolve a postal code to its city, or a city to its postal codes.

Arguments containing a digit are treated as postal codes. Several results
for a city mean the name is ambiguous.

Examples:
  intake lookup 10115
  intake lookup "Frankfurt am Main"
  intake lookup --server http://intake.internal:8080 Köln`

const lookupShortDesc string = "Look up a postal code or city"

// Resolver is the part of the API client used by the command.
type Resolver interface {
	CityByCode(ctx context.Context, code string) (address.Result, error)
	CodesByCity(ctx context.Context, city string) (models.CityLookupResponse, error)
}

type lookupCommander struct {
	server *serverflag.Flags
	// resolver overrides the API client in tests.
	resolver Resolver
}

func NewLookupCmd() *cobra.Command {
	cmder := &lookupCommander{}

	cmd := &cobra.Command{
		Use:   "lookup <postal-code|city>",
		Short: lookupShortDesc,
		Long:  lookupLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd.OutOrStdout(), strings.Join(args, " "))
		},
	}

	cmder.server = serverflag.Add(cmd)
	return cmd
}

func (c *lookupCommander) run(ctx context.Context, out io.Writer, query string) error {
	resolver := c.resolver
	if resolver == nil {
		resolver = c.server.Client()
	}

	query = strings.TrimSpace(query)
	if looksLikeCode(query) {
		return lookupCode(ctx, out, resolver, query)
	}
	return lookupCity(ctx, out, resolver, query)
}

func looksLikeCode(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

func lookupCode(ctx context.Context, out io.Writer, r Resolver, code string) error {
	res, err := r.CityByCode(ctx, code)
	switch {
	case postal.IsValidationError(err):
		fmt.Fprintf(out, "warning: %v\n", err)
		return nil
	case errors.Is(err, address.ErrNotFound):
		return fmt.Errorf("postal code %s: city not found", code)
	case client.IsManualEntry(err):
		return fmt.Errorf("postal code %s: %w", code, err)
	case err != nil:
		return err
	}

	fmt.Fprintln(out, formatPlace(res.Place))
	return nil
}

func lookupCity(ctx context.Context, out io.Writer, r Resolver, city string) error {
	res, err := r.CodesByCity(ctx, city)
	switch {
	case errors.Is(err, address.ErrCityTooShort):
		fmt.Fprintf(out, "warning: %v\n", err)
		return nil
	case errors.Is(err, address.ErrNotFound):
		return fmt.Errorf("%s: no postal code found", city)
	case err != nil:
		return err
	}

	if res.Ambiguous {
		fmt.Fprintf(out, "%d postal codes for %s:\n", len(res.Results), city)
		for _, p := range res.Results {
			fmt.Fprintln(out, "  "+formatPlace(p))
		}
		return nil
	}
	for _, p := range res.Results {
		fmt.Fprintln(out, formatPlace(p))
	}
	return nil
}

func formatPlace(p postal.Place) string {
	s := p.Code + " " + p.City
	if p.State != "" {
		s += " (" + p.State + ")"
	}
	return s
}
