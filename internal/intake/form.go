// Package intake turns submitted accommodation forms into listings: it
// decodes the form fields, stores uploaded images and builds the summary
// shown before a listing is confirmed.
package intake

import (
	"net/url"
	"time"

	"github.com/gorilla/schema"

	"github.com/PratikDhanave/lodging-intake-service/internal/models"
)

// CreatedAtLayout formats Listing.CreatedAt.
const CreatedAtLayout = time.DateTime

// ImagesField is the multipart field carrying image files.
const ImagesField = "images"

var (
	decoder = newDecoder()
	encoder = schema.NewEncoder()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// DecodeForm maps posted form values onto a ListingForm. Missing fields stay
// empty and unknown fields are ignored.
func DecodeForm(values url.Values) (models.ListingForm, error) {
	var form models.ListingForm
	if err := decoder.Decode(&form, values); err != nil {
		return models.ListingForm{}, err
	}
	return form, nil
}

// EncodeForm is the inverse of DecodeForm.
func EncodeForm(form models.ListingForm) (url.Values, error) {
	values := url.Values{}
	if err := encoder.Encode(form, values); err != nil {
		return nil, err
	}
	return values, nil
}

// LodgingType is one of the accommodation kinds offered by the form.
type LodgingType struct {
	Value string
	Label string
}

// LodgingTypes lists the accepted type values in form order.
var LodgingTypes = []LodgingType{
	{"hotel", "Hotel"},
	{"apartment", "Holiday apartment"},
	{"hostel", "Hostel"},
	{"guesthouse", "Guesthouse"},
	{"villa", "Villa"},
	{"other", "Other"},
}

// TypeLabel returns the display name of a lodging type, the raw value for
// unknown types and "-" for an empty one.
func TypeLabel(value string) string {
	for _, t := range LodgingTypes {
		if t.Value == value {
			return t.Label
		}
	}
	if value == "" {
		return "-"
	}
	return value
}
