package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultZippopotamURL is the public Zippopotam endpoint.
const DefaultZippopotamURL = "https://api.zippopotam.us"

// Zippopotam resolves postal codes through the Zippopotam API
// (GET /{country}/{code}).
type Zippopotam struct {
	client  *resty.Client
	country string
}

func NewZippopotam(baseURL, country string, timeout time.Duration) *Zippopotam {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Zippopotam{client: client, country: strings.ToLower(country)}
}

type zippopotamResponse struct {
	PostCode string `json:"post code"`
	Country  string `json:"country"`
	Places   []struct {
		PlaceName string `json:"place name"`
		State     string `json:"state"`
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

// Lookup resolves code to the first place reported by the API. A 404 or an
// empty place list is reported as found=false without an error.
func (z *Zippopotam) Lookup(ctx context.Context, code string) (Place, bool, error) {
	res, err := z.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"country": z.country, "code": code}).
		Get("/{country}/{code}")
	if err != nil {
		return Place{}, false, fmt.Errorf("zippopotam request for %s: %w", code, err)
	}

	if res.StatusCode() == http.StatusNotFound {
		return Place{}, false, nil
	}
	if !res.IsSuccess() {
		return Place{}, false, fmt.Errorf("zippopotam returned HTTP %d for %s", res.StatusCode(), code)
	}

	var body zippopotamResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return Place{}, false, fmt.Errorf("decoding zippopotam response for %s: %w", code, err)
	}
	if len(body.Places) == 0 {
		return Place{}, false, nil
	}

	p := body.Places[0]
	return Place{
		Code:      code,
		City:      p.PlaceName,
		State:     p.State,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}, true, nil
}
