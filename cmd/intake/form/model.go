package formcmder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PratikDhanave/lodging-intake-service/internal/address"
	"github.com/PratikDhanave/lodging-intake-service/internal/client"
	"github.com/PratikDhanave/lodging-intake-service/internal/intake"
	"github.com/PratikDhanave/lodging-intake-service/internal/models"
	"github.com/PratikDhanave/lodging-intake-service/internal/postal"
)

// API is the part of the intake client the form talks to.
type API interface {
	CityByCode(ctx context.Context, code string) (address.Result, error)
	CodesByCity(ctx context.Context, city string) (models.CityLookupResponse, error)
	SubmitListing(ctx context.Context, form models.ListingForm, images []client.File) (models.SaveResponse, error)
}

const (
	keyZipcode = "zipcode"
	keyCity    = "city"
	keyImages  = "images"

	defaultCountry = "Deutschland"
)

type fieldSpec struct {
	key, label, placeholder string
}

var fieldSpecs = []fieldSpec{
	{"name", "Name", ""},
	{"type", "Type", "hotel, apartment, hostel, guesthouse, villa, other"},
	{"street", "Street", ""},
	{keyZipcode, "Postal code", "5 digits"},
	{keyCity, "City", "filled in automatically"},
	{"country", "Country", ""},
	{"rooms", "Rooms", ""},
	{"bathrooms", "Bathrooms", ""},
	{"maxGuests", "Max. guests", ""},
	{"size", "Size (m²)", ""},
	{"description", "Description", ""},
	{"contactName", "Contact name", ""},
	{"contactEmail", "Contact e-mail", ""},
	{"contactPhone", "Contact phone", ""},
	{"contactWebsite", "Website", ""},
	{keyImages, "Images", "image paths, comma separated"},
}

type screen int

const (
	screenEdit screen = iota
	screenSelect
	screenSummary
)

type noteKind int

const (
	noteWarn noteKind = iota
	noteError
	noteOK
)

type note struct {
	kind noteKind
	text string
}

type cityResultMsg struct {
	code string
	res  address.Result
	err  error
}

type codesResultMsg struct {
	city string
	res  models.CityLookupResponse
	err  error
}

type submittedMsg struct {
	res models.SaveResponse
	err error
}

// model is the interactive listing form.
type model struct {
	ctx context.Context
	api API

	inputs []textinput.Model
	focus  int
	screen screen

	debouncer *address.Debouncer
	codeDelay time.Duration
	cityDelay time.Duration
	results   chan tea.Msg

	notes   map[string]note
	loading map[string]bool

	choices []postal.Place
	choice  int

	previews   intake.Previews
	summary    models.Summary
	submitting bool
	status     note
}

func newModel(ctx context.Context, api API) *model {
	m := &model{
		ctx:       ctx,
		api:       api,
		debouncer: address.NewDebouncer(),
		codeDelay: address.CodeDebounce,
		cityDelay: address.CityDebounce,
		results:   make(chan tea.Msg, 8),
		notes:     map[string]note{},
		loading:   map[string]bool{},
	}

	for _, spec := range fieldSpecs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = spec.placeholder
		in.Width = 48
		m.inputs = append(m.inputs, in)
	}
	m.input("country").SetValue(defaultCountry)
	m.inputs[0].Focus()
	return m
}

func indexOf(key string) int {
	for i, spec := range fieldSpecs {
		if spec.key == key {
			return i
		}
	}
	panic("unknown field " + key)
}

func (m *model) input(key string) *textinput.Model {
	return &m.inputs[indexOf(key)]
}

func (m *model) value(key string) string {
	return strings.TrimSpace(m.input(key).Value())
}

func (m *model) waitForResult() tea.Cmd {
	results := m.results
	return func() tea.Msg {
		return <-results
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForResult())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.debouncer.Stop()
			return m, tea.Quit
		}
		switch m.screen {
		case screenSelect:
			return m, m.updateSelect(msg)
		case screenSummary:
			return m, m.updateSummary(msg)
		default:
			return m, m.updateEdit(msg)
		}

	case cityResultMsg:
		m.onCityResult(msg)
		return m, m.waitForResult()

	case codesResultMsg:
		m.onCodesResult(msg)
		return m, m.waitForResult()

	case submittedMsg:
		m.onSubmitted(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	i = ((i % n) + n) % n
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m *model) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		return m.setFocus(m.focus + 1)
	case "shift+tab", "up":
		return m.setFocus(m.focus - 1)
	case "ctrl+s":
		m.openSummary()
		return nil
	case "enter":
		if m.focus == len(m.inputs)-1 {
			m.openSummary()
			return nil
		}
		return m.setFocus(m.focus + 1)
	}

	key := fieldSpecs[m.focus].key
	before := m.inputs[m.focus].Value()

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	if m.inputs[m.focus].Value() != before {
		switch key {
		case keyZipcode:
			m.onZipcodeChanged()
		case keyCity:
			m.onCityChanged()
		}
	}
	return cmd
}

// onZipcodeChanged schedules a city lookup once a complete code was typed.
func (m *model) onZipcodeChanged() {
	code := m.value(keyZipcode)
	delete(m.notes, keyZipcode)

	err := postal.ValidateCode(code)
	if err != nil {
		m.debouncer.Cancel(keyZipcode)
		m.loading[keyZipcode] = false
		if code == "" {
			return
		}
		if !errors.Is(err, postal.ErrIncomplete) {
			m.notes[keyZipcode] = note{noteWarn, err.Error()}
		}
		m.input(keyCity).SetValue("")
		return
	}

	m.input(keyCity).SetValue("")
	m.loading[keyZipcode] = true

	api, ctx, results := m.api, m.ctx, m.results
	m.debouncer.Trigger(keyZipcode, m.codeDelay, func() {
		res, err := api.CityByCode(ctx, code)
		results <- cityResultMsg{code: code, res: res, err: err}
	})
}

// onCityChanged schedules a reverse lookup for names of at least three characters.
func (m *model) onCityChanged() {
	city := m.value(keyCity)
	delete(m.notes, keyCity)

	if utf8.RuneCountInString(city) < address.MinCityLength {
		m.debouncer.Cancel(keyCity)
		m.loading[keyCity] = false
		if city != "" {
			m.input(keyZipcode).SetValue("")
		}
		return
	}

	m.input(keyZipcode).SetValue("")
	m.loading[keyCity] = true

	api, ctx, results := m.api, m.ctx, m.results
	m.debouncer.Trigger(keyCity, m.cityDelay, func() {
		res, err := api.CodesByCity(ctx, city)
		results <- codesResultMsg{city: city, res: res, err: err}
	})
}

func (m *model) onCityResult(msg cityResultMsg) {
	if msg.code != m.value(keyZipcode) {
		return
	}
	m.loading[keyZipcode] = false

	switch {
	case msg.err == nil:
		m.input(keyCity).SetValue(msg.res.City)
		delete(m.notes, keyCity)
	case errors.Is(msg.err, address.ErrNotFound):
		m.input(keyCity).SetValue("")
		m.notes[keyCity] = note{noteWarn, "City not found"}
	case postal.IsValidationError(msg.err):
		m.notes[keyZipcode] = note{noteWarn, msg.err.Error()}
	default:
		m.input(keyCity).SetValue("")
		m.notes[keyCity] = note{noteError, "Lookup failed, please enter the city manually"}
	}
}

func (m *model) onCodesResult(msg codesResultMsg) {
	if msg.city != m.value(keyCity) {
		return
	}
	m.loading[keyCity] = false

	switch {
	case msg.err == nil && len(msg.res.Results) > 0:
		if msg.res.Ambiguous {
			m.choices = msg.res.Results
			m.choice = 0
			m.screen = screenSelect
			return
		}
		p := msg.res.Results[0]
		m.input(keyZipcode).SetValue(p.Code)
		text := "Postal code " + p.Code + " found"
		if p.State != "" {
			text += " (" + p.State + ")"
		}
		m.notes[keyZipcode] = note{noteOK, text}
	case msg.err == nil, errors.Is(msg.err, address.ErrNotFound), errors.Is(msg.err, address.ErrCityTooShort):
		m.input(keyZipcode).SetValue("")
		m.notes[keyZipcode] = note{noteWarn, "No postal code found"}
	default:
		m.input(keyZipcode).SetValue("")
		m.notes[keyZipcode] = note{noteError, "Lookup failed, please enter the postal code manually"}
	}
}

func (m *model) updateSelect(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.choice > 0 {
			m.choice--
		}
	case "down", "j":
		if m.choice < len(m.choices)-1 {
			m.choice++
		}
	case "enter":
		p := m.choices[m.choice]
		m.input(keyZipcode).SetValue(p.Code)
		m.input(keyCity).SetValue(p.City)
		m.choices = nil
		m.screen = screenEdit
	case "esc":
		m.choices = nil
		m.screen = screenEdit
	}
	return nil
}

func (m *model) form() models.ListingForm {
	return models.ListingForm{
		Name:           m.value("name"),
		Type:           m.value("type"),
		Street:         m.value("street"),
		Zipcode:        m.value(keyZipcode),
		City:           m.value(keyCity),
		Country:        m.value("country"),
		Rooms:          m.value("rooms"),
		Bathrooms:      m.value("bathrooms"),
		MaxGuests:      m.value("maxGuests"),
		Size:           m.value("size"),
		Description:    m.value("description"),
		ContactName:    m.value("contactName"),
		ContactEmail:   m.value("contactEmail"),
		ContactPhone:   m.value("contactPhone"),
		ContactWebsite: m.value("contactWebsite"),
	}
}

func imagePaths(s string) []string {
	var paths []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func (m *model) openSummary() {
	m.previews.Reset()
	m.status = note{}

	var unreadable []string
	for _, path := range imagePaths(m.value(keyImages)) {
		if _, err := m.previews.AddFile(path); err != nil {
			unreadable = append(unreadable, path)
		}
	}
	if len(unreadable) > 0 {
		m.status = note{noteWarn, "Could not read " + strings.Join(unreadable, ", ")}
	}

	m.summary = intake.BuildSummary(m.form(), m.previews.Names())
	m.summary.Rejected = m.previews.Rejected
	m.screen = screenSummary
}

func (m *model) updateSummary(msg tea.KeyMsg) tea.Cmd {
	if m.submitting {
		return nil
	}
	switch msg.String() {
	case "e", "esc":
		m.screen = screenEdit
		return nil
	case "c", "enter":
		m.submitting = true
		m.status = note{}
		return m.submit()
	}
	return nil
}

func (m *model) submit() tea.Cmd {
	api, ctx, form := m.api, m.ctx, m.form()
	files := make([]client.File, 0, len(m.previews.Images))
	for _, img := range m.previews.Images {
		files = append(files, client.File{Name: img.Name, Data: bytes.NewReader(img.Data)})
	}
	return func() tea.Msg {
		res, err := api.SubmitListing(ctx, form, files)
		return submittedMsg{res: res, err: err}
	}
}

func (m *model) onSubmitted(msg submittedMsg) {
	m.submitting = false
	if msg.err != nil {
		m.status = note{noteError, fmt.Sprintf("Saving failed: %v", msg.err)}
		return
	}
	m.reset()
	m.status = note{noteOK, msg.res.Message}
}

// reset clears the form after a successful submission.
func (m *model) reset() {
	m.debouncer.Cancel(keyZipcode)
	m.debouncer.Cancel(keyCity)
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.input("country").SetValue(defaultCountry)
	m.previews.Reset()
	m.summary = models.Summary{}
	m.notes = map[string]note{}
	m.loading = map[string]bool{}
	m.choices = nil
	m.screen = screenEdit
	m.setFocus(0)
}
