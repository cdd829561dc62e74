package intake

import (
	"fmt"
	"strings"

	"github.com/PratikDhanave/lodging-intake-service/internal/models"
)

const (
	noDescription = "No description provided"
	noImages      = "No images uploaded"
)

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// BuildSummary renders the read-only view of a listing. images are the
// previewed image references and are carried over unchanged.
func BuildSummary(form models.ListingForm, images []string) models.Summary {
	s := models.Summary{
		Name:        orDefault(form.Name, "-"),
		Type:        TypeLabel(form.Type),
		Description: orDefault(form.Description, noDescription),
		Address: fmt.Sprintf("%s, %s %s, %s",
			orDefault(form.Street, "-"), form.Zipcode, form.City, form.Country),
		Amenities: fmt.Sprintf("%s rooms, %s bathrooms, %s guests max.",
			orDefault(form.Rooms, "0"), orDefault(form.Bathrooms, "0"), orDefault(form.MaxGuests, "0")),
		Contact: models.Contact{
			Name:    orDefault(form.ContactName, "-"),
			Email:   orDefault(form.ContactEmail, "-"),
			Phone:   orDefault(form.ContactPhone, "-"),
			Website: form.ContactWebsite,
		},
		Images: append([]string{}, images...),
	}
	if form.Size != "" {
		s.Amenities += fmt.Sprintf(", %s m²", form.Size)
	}
	if len(images) == 0 {
		s.ImagesNote = noImages
	}
	return s
}

// SummaryLines renders a summary as labelled text lines.
func SummaryLines(s models.Summary) []string {
	lines := []string{
		"Name:          " + s.Name,
		"Type:          " + s.Type,
		"Description:   " + s.Description,
		"Address:       " + s.Address,
		"Amenities:     " + s.Amenities,
		"Contact:       " + s.Contact.Name,
		"  E-mail:      " + s.Contact.Email,
		"  Phone:       " + s.Contact.Phone,
	}
	if s.Contact.Website != "" {
		lines = append(lines, "  Website:     "+s.Contact.Website)
	}

	if len(s.Images) == 0 {
		lines = append(lines, "Images:        "+orDefault(s.ImagesNote, noImages))
	} else {
		lines = append(lines, fmt.Sprintf("Images:        %d", len(s.Images)))
		for _, img := range s.Images {
			lines = append(lines, "  - "+abbreviate(img, 60))
		}
	}
	for _, name := range s.Rejected {
		lines = append(lines, "Rejected:      "+name+" ("+ErrNotImage.Error()+")")
	}
	return lines
}

func abbreviate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// FormatSummary joins SummaryLines with newlines.
func FormatSummary(s models.Summary) string {
	return strings.Join(SummaryLines(s), "\n")
}
