package chat

import (
	"io"
	"strings"

	"github.com/bnema/tpx/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	AcceptCommand = "accept"
	RejectCommand = "reject"
)

// Formatter turns message templates into terminal text. Colour support is
// detected from the writer it was created for.
type Formatter struct {
	renderer *lipgloss.Renderer
	hint     lipgloss.Style
}

type FormatterOption func(*Formatter)

// WithColorProfile overrides the detected colour profile.
func WithColorProfile(profile termenv.Profile) FormatterOption {
	return func(f *Formatter) {
		f.renderer.SetColorProfile(profile)
	}
}

func NewFormatter(w io.Writer, opts ...FormatterOption) *Formatter {
	f := &Formatter{renderer: lipgloss.NewRenderer(w)}
	for _, opt := range opts {
		opt(f)
	}
	f.hint = f.renderer.NewStyle().Faint(true).Inline(true)
	return f
}

func (f *Formatter) Colorize(text string) string {
	var (
		out     strings.Builder
		segment strings.Builder
		current format
	)

	flush := func() {
		if segment.Len() == 0 {
			return
		}
		out.WriteString(f.style(current).Render(segment.String()))
		segment.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if isMarker(runes[i]) && i+1 < len(runes) {
			if next, ok := current.apply(runes[i+1]); ok {
				flush()
				current = next
				i++
				continue
			}
		}
		segment.WriteRune(runes[i])
	}
	flush()

	return out.String()
}

func (f *Formatter) style(current format) lipgloss.Style {
	style := f.renderer.NewStyle().Inline(true)
	if current.color != "" {
		style = style.Foreground(current.color)
	}
	return style.
		Bold(current.bold).
		Italic(current.italic).
		Underline(current.underline).
		Strikethrough(current.strike)
}

// Message renders n with the configured prefix. Prompts get an extra line of
// accept/reject buttons when click buttons are enabled.
func (f *Formatter) Message(settings domain.Settings, n domain.Notification) string {
	text := f.Colorize(settings.Prefix + Substitute(settings.Template(n.Key), n.Vars))
	if !n.Prompt || !settings.ClickButtonsEnabled {
		return text
	}

	return text + "\n" + f.Buttons(settings)
}

// Buttons renders the accept and reject buttons with their hover text and
// the command each one stands for.
func (f *Formatter) Buttons(settings domain.Settings) string {
	return strings.Join([]string{
		f.button(settings, domain.MsgClickAccept, domain.MsgHoverAccept, AcceptCommand),
		f.button(settings, domain.MsgClickReject, domain.MsgHoverReject, RejectCommand),
	}, " ")
}

func (f *Formatter) button(settings domain.Settings, label, hover domain.MessageKey, command string) string {
	hint := Strip(settings.Template(hover)) + ": " + command
	return f.Colorize(settings.Template(label)) + " " + f.hint.Render("("+hint+")")
}
