package submitcmder

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PratikDhanave/lodging-intake-service/cmd/intake/serverflag"
	"github.com/PratikDhanave/lodging-intake-service/internal/client"
	"github.com/PratikDhanave/lodging-intake-service/internal/intake"
	"github.com/PratikDhanave/lodging-intake-service/internal/models"
)

const submitLongDesc string = `Submit an accommodation listing.

The summary of the listing is printed first and has to be confirmed
before anything is sent. Files that are not images are left out.

Examples:
  intake submit --name "Haus am See" --type villa --zipcode 88339 \
    --city "Bad Waldsee" --rooms 4 --image front.jpg --image garden.jpg
  intake submit --yes --name "Pension Sonne" --type guesthouse`

const submitShortDesc string = "Submit an accommodation listing"

// Submitter is the part of the API client used by the command.
type Submitter interface {
	SubmitListing(ctx context.Context, form models.ListingForm, images []client.File) (models.SaveResponse, error)
}

type submitCommander struct {
	server    *serverflag.Flags
	submitter Submitter

	form   models.ListingForm
	images []string
	yes    bool
}

func NewSubmitCmd() *cobra.Command {
	cmder := &submitCommander{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: submitShortDesc,
		Long:  submitLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&cmder.form.Name, "name", "", "Name of the accommodation")
	f.StringVar(&cmder.form.Type, "type", "", "Type: hotel, apartment, hostel, guesthouse, villa or other")
	f.StringVar(&cmder.form.Street, "street", "", "Street and number")
	f.StringVar(&cmder.form.Zipcode, "zipcode", "", "Postal code")
	f.StringVar(&cmder.form.City, "city", "", "City")
	f.StringVar(&cmder.form.Country, "country", "Deutschland", "Country")
	f.StringVar(&cmder.form.Rooms, "rooms", "", "Number of rooms")
	f.StringVar(&cmder.form.Bathrooms, "bathrooms", "", "Number of bathrooms")
	f.StringVar(&cmder.form.MaxGuests, "max-guests", "", "Maximum number of guests")
	f.StringVar(&cmder.form.Size, "size", "", "Size in m²")
	f.StringVar(&cmder.form.Description, "description", "", "Description")
	f.StringVar(&cmder.form.ContactName, "contact-name", "", "Contact person")
	f.StringVar(&cmder.form.ContactEmail, "contact-email", "", "Contact e-mail")
	f.StringVar(&cmder.form.ContactPhone, "contact-phone", "", "Contact phone")
	f.StringVar(&cmder.form.ContactWebsite, "contact-website", "", "Website")
	f.StringArrayVar(&cmder.images, "image", nil, "Image file to upload (repeatable)")
	f.BoolVarP(&cmder.yes, "yes", "y", false, "Submit without asking for confirmation")

	cmder.server = serverflag.Add(cmd)
	return cmd
}

func (c *submitCommander) run(ctx context.Context, in io.Reader, out io.Writer) error {
	var previews intake.Previews
	for _, path := range c.images {
		if _, err := previews.AddFile(path); err != nil {
			return fmt.Errorf("could not read image %s: %w", path, err)
		}
	}

	summary := intake.BuildSummary(c.form, previews.Names())
	summary.Rejected = previews.Rejected
	fmt.Fprintln(out, intake.FormatSummary(summary))
	fmt.Fprintln(out)

	if !c.yes && !confirm(in, out, "Save this accommodation? [y/N] ") {
		fmt.Fprintln(out, "Not submitted.")
		return nil
	}

	submitter := c.submitter
	if submitter == nil {
		submitter = c.server.Client()
	}

	files := make([]client.File, 0, len(previews.Images))
	for _, img := range previews.Images {
		files = append(files, client.File{Name: img.Name, Data: bytes.NewReader(img.Data)})
	}

	res, err := submitter.SubmitListing(ctx, c.form, files)
	if err != nil {
		return fmt.Errorf("could not submit listing: %w", err)
	}

	fmt.Fprintln(out, res.Message)
	fmt.Fprintf(out, "Received at %s\n", res.Data.CreatedAt)
	for _, ref := range res.Data.Images {
		fmt.Fprintln(out, "  stored "+ref)
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "j", "ja":
		return true
	}
	return false
}
