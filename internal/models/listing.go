package models

import "github.com/PratikDhanave/lodging-intake-service/internal/postal"

// ListingForm holds the flat fields of the accommodation form. Counts stay
// strings exactly as entered.
type ListingForm struct {
	Name           string `schema:"name" json:"name"`
	Type           string `schema:"type" json:"type"`
	Street         string `schema:"street" json:"street"`
	Zipcode        string `schema:"zipcode" json:"zipcode"`
	City           string `schema:"city" json:"city"`
	Country        string `schema:"country" json:"country"`
	Rooms          string `schema:"rooms" json:"rooms"`
	Bathrooms      string `schema:"bathrooms" json:"bathrooms"`
	MaxGuests      string `schema:"maxGuests" json:"maxGuests"`
	Size           string `schema:"size" json:"size"`
	Description    string `schema:"description" json:"description"`
	ContactName    string `schema:"contactName" json:"contactName"`
	ContactEmail   string `schema:"contactEmail" json:"contactEmail"`
	ContactPhone   string `schema:"contactPhone" json:"contactPhone"`
	ContactWebsite string `schema:"contactWebsite" json:"contactWebsite"`
}

// Listing is the echoed submission. Images holds references to the stored
// files and is omitted when no image was stored.
type Listing struct {
	ListingForm
	CreatedAt string   `json:"created_at"`
	Images    []string `json:"images,omitempty"`
}

// SaveResponse is returned by POST /api/listings.
type SaveResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    Listing `json:"data"`
}

// Contact is the contact block of a Summary.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website,omitempty"`
}

// Summary is the read-only view of a listing shown before it is confirmed.
type Summary struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Amenities   string   `json:"amenities"`
	Contact     Contact  `json:"contact"`
	Images      []string `json:"images"`
	ImagesNote  string   `json:"images_note,omitempty"`
	Rejected    []string `json:"rejected,omitempty"`
}

// CityLookupResponse is returned by GET /api/cities/:name/postal-codes.
// Ambiguous results are meant to be offered as a selection list.
type CityLookupResponse struct {
	City      string         `json:"city"`
	Results   []postal.Place `json:"results"`
	Ambiguous bool           `json:"ambiguous"`
}

// NotFoundMessage is the error of a lookup that found no place. Clients use
// it to tell a lookup miss from an unknown route.
const NotFoundMessage = "not found"

// ErrorResponse is the body of failed lookups and rejected requests.
type ErrorResponse struct {
	Error       string `json:"error"`
	Warning     string `json:"warning,omitempty"`
	ManualEntry bool   `json:"manual_entry,omitempty"`
}
