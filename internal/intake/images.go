package intake

import (
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned for uploads whose content does not sniff as an image.
var ErrNotImage = errors.New("only image files are allowed")

// SniffImage detects the MIME type of r from its leading bytes and reports
// whether it is an image.
func SniffImage(r io.Reader) (string, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	if !isImage(mt.String()) {
		return mt.String(), ErrNotImage
	}
	return mt.String(), nil
}

func isImage(mime string) bool {
	return strings.HasPrefix(mime, "image/")
}

// ImagePreview is an accepted image rendered as a data URI.
type ImagePreview struct {
	Name    string `json:"name"`
	MIME    string `json:"mime"`
	DataURI string `json:"data_uri"`
	Data    []byte `json:"-"`
}

// Previews collects client-side image previews. Files that are not images
// are recorded by name in Rejected.
type Previews struct {
	Images   []ImagePreview
	Rejected []string
}

// Add sniffs data and either appends a preview or rejects the file.
func (p *Previews) Add(name string, data []byte) bool {
	mime := mimetype.Detect(data).String()
	if !isImage(mime) {
		p.Rejected = append(p.Rejected, name)
		return false
	}

	p.Images = append(p.Images, ImagePreview{
		Name:    name,
		MIME:    mime,
		DataURI: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
		Data:    data,
	})
	return true
}

// AddFile reads the file at path and adds it under its base name.
func (p *Previews) AddFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return p.Add(filepath.Base(path), data), nil
}

// Reset clears all previews.
func (p *Previews) Reset() {
	p.Images = nil
	p.Rejected = nil
}

// DataURIs returns the image references of all previews.
func (p *Previews) DataURIs() []string {
	out := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		out = append(out, img.DataURI)
	}
	return out
}

// Names returns the file names of all previews.
func (p *Previews) Names() []string {
	out := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		out = append(out, img.Name)
	}
	return out
}
