package postal

import (
	"context"
	"strings"
)

// Place is a postal code resolved to a locality.
type Place struct {
	Code      string `json:"zipcode"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`
}

// Gazetteer is a reference table of postal codes and the cities they belong to.
//
// LookupCode reports found=false for unknown codes. CodesForCity expects a
// normalized city key (see NormalizeCity) and returns nil for unknown cities.
type Gazetteer interface {
	LookupCode(ctx context.Context, code string) (Place, bool, error)
	CodesForCity(ctx context.Context, cityKey string) ([]string, error)
}

// NormalizeCity turns a user supplied city name into a reverse lookup key.
func NormalizeCity(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
