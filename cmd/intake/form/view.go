package formcmder

import (
	"strings"

	"github.com/PratikDhanave/lodging-intake-service/internal/intake"
)

func renderNote(n note) string {
	switch n.kind {
	case noteError:
		return errorStyle.Render(n.text)
	case noteOK:
		return okStyle.Render(n.text)
	default:
		return warnStyle.Render(n.text)
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New accommodation"))
	b.WriteString("\n")

	switch m.screen {
	case screenSelect:
		m.viewSelect(&b)
	case screenSummary:
		m.viewSummary(&b)
	default:
		m.viewEdit(&b)
	}

	if m.status.text != "" {
		b.WriteString("\n" + renderNote(m.status) + "\n")
	}
	return b.String()
}

func (m *model) viewEdit(b *strings.Builder) {
	for i, spec := range fieldSpecs {
		label := labelStyle.Render(spec.label)
		if i == m.focus {
			label = focusStyle.Render(spec.label)
		}
		b.WriteString(label + m.inputs[i].View())
		if m.loading[spec.key] {
			b.WriteString(" " + warnStyle.Render("…"))
		}
		b.WriteString("\n")
		if n, ok := m.notes[spec.key]; ok {
			b.WriteString(labelStyle.Render("") + renderNote(n) + "\n")
		}
	}
	b.WriteString(helpStyle.Render("tab/shift+tab move • ctrl+s review • ctrl+c quit"))
}

func (m *model) viewSelect(b *strings.Builder) {
	b.WriteString("Several postal codes match " + m.value(keyCity) + ":\n\n")
	for i, p := range m.choices {
		line := p.Code + " - " + p.City
		if p.State != "" {
			line += " (" + p.State + ")"
		}
		if i == m.choice {
			b.WriteString(cursorStyle.Render("> "+line) + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ choose • enter select • esc cancel"))
}

func (m *model) viewSummary(b *strings.Builder) {
	b.WriteString(summaryStyle.Render(intake.FormatSummary(m.summary)))
	b.WriteString("\n")
	if m.submitting {
		b.WriteString(helpStyle.Render("Saving…"))
		return
	}
	b.WriteString(helpStyle.Render("c confirm and save • e edit • ctrl+c quit"))
}
