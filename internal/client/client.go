// Package client talks to the intake HTTP API.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/PratikDhanave/lodging-intake-service/internal/address"
	"github.com/PratikDhanave/lodging-intake-service/internal/intake"
	"github.com/PratikDhanave/lodging-intake-service/internal/models"
	"github.com/PratikDhanave/lodging-intake-service/internal/postal"
)

// DefaultBaseURL is the address of a locally running service.
const DefaultBaseURL = "http://localhost:8080"

// APIError is a non-2xx response that does not map to a known lookup error.
type APIError struct {
	Status int
	Body   models.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Error != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Body.Error)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// knownWarnings map the warning text of a 400 response back to its error.
var knownWarnings = []error{
	postal.ErrIncomplete,
	postal.ErrTooLong,
	postal.ErrNotNumeric,
	address.ErrCityTooShort,
}

type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// File is an image attached to a submission.
type File struct {
	Name string
	Data io.Reader
}

// CityByCode resolves a postal code. Errors compare with errors.Is against
// the postal and address sentinels.
func (c *Client) CityByCode(ctx context.Context, code string) (address.Result, error) {
	var out address.Result
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("code", strings.TrimSpace(code)).
		SetResult(&out).
		SetError(&models.ErrorResponse{}).
		Get("/api/postal-codes/{code}")
	if err != nil {
		return address.Result{}, fmt.Errorf("postal code request failed: %w", err)
	}
	if res.IsError() {
		return address.Result{}, responseError(res)
	}
	return out, nil
}

// CodesByCity resolves a city name to its postal codes.
func (c *Client) CodesByCity(ctx context.Context, city string) (models.CityLookupResponse, error) {
	var out models.CityLookupResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("name", strings.TrimSpace(city)).
		SetResult(&out).
		SetError(&models.ErrorResponse{}).
		Get("/api/cities/{name}/postal-codes")
	if err != nil {
		return models.CityLookupResponse{}, fmt.Errorf("city request failed: %w", err)
	}
	if res.IsError() {
		return models.CityLookupResponse{}, responseError(res)
	}
	return out, nil
}

// SubmitListing posts the form and its images as multipart form data.
func (c *Client) SubmitListing(ctx context.Context, form models.ListingForm, images []File) (models.SaveResponse, error) {
	values, err := intake.EncodeForm(form)
	if err != nil {
		return models.SaveResponse{}, fmt.Errorf("encoding listing: %w", err)
	}

	var out models.SaveResponse
	req := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(flatten(values)).
		SetResult(&out).
		SetError(&models.ErrorResponse{})
	for _, img := range images {
		req.SetFileReader(intake.ImagesField, img.Name, img.Data)
	}

	res, err := req.Post("/api/listings")
	if err != nil {
		return models.SaveResponse{}, fmt.Errorf("submitting listing: %w", err)
	}
	if res.IsError() {
		return models.SaveResponse{}, responseError(res)
	}
	return out, nil
}

func flatten(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func responseError(res *resty.Response) error {
	body, _ := res.Error().(*models.ErrorResponse)
	if body == nil {
		body = &models.ErrorResponse{}
	}

	switch res.StatusCode() {
	case http.StatusBadRequest:
		for _, known := range knownWarnings {
			if body.Warning == known.Error() {
				return known
			}
		}
	case http.StatusNotFound:
		if body.Error == models.NotFoundMessage {
			return address.ErrNotFound
		}
	case http.StatusBadGateway:
		if body.ManualEntry {
			return address.ErrLookupFailed
		}
	}
	return &APIError{Status: res.StatusCode(), Body: *body}
}

// IsManualEntry reports whether err means the user has to type the value.
func IsManualEntry(err error) bool {
	return errors.Is(err, address.ErrLookupFailed)
}
