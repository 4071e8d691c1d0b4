package chat

import (
	"bytes"
	"testing"

	"github.com/bnema/tpx/internal/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestSubstitute(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		template string
		vars     map[string]string
		want     string
	}{
		{name: "single placeholder", template: "Hello {player}!", vars: map[string]string{"player": "Alice"}, want: "Hello Alice!"},
		{name: "repeated placeholder", template: "{time}..{time}", vars: map[string]string{"time": "3"}, want: "3..3"},
		{name: "unknown placeholder kept", template: "{player} in {world}", vars: map[string]string{"player": "Bob"}, want: "Bob in {world}"},
		{name: "no vars", template: "plain {player}", want: "plain {player}"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Substitute(tc.template, tc.vars))
		})
	}
}

func TestStrip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want string
	}{
		{in: "&aGreen &lBold", want: "Green Bold"},
		{in: "§cRed§r done", want: "Red done"},
		{in: "&Aupper &kcase", want: "upper case"},
		{in: "Tom & Jerry", want: "Tom & Jerry"},
		{in: "&zunknown", want: "&zunknown"},
		{in: "trailing &", want: "trailing &"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, Strip(tc.in), tc.in)
	}
}

func TestColorizeWithoutColorSupportMatchesStrip(t *testing.T) {
	t.Parallel()

	f := NewFormatter(&bytes.Buffer{}, WithColorProfile(termenv.Ascii))

	for _, in := range []string{"&eTPX &f&l>>> &aSent", "&zkept & literal", "§mgone§r back"} {
		assert.Equal(t, Strip(in), f.Colorize(in), in)
	}
}

func TestColorizeEmitsStylesWhenSupported(t *testing.T) {
	t.Parallel()

	f := NewFormatter(&bytes.Buffer{}, WithColorProfile(termenv.TrueColor))

	out := f.Colorize("&cRed &lbold")

	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "Red ")
	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "&c")
	assert.NotContains(t, out, "&l")
}

func TestFormatApplyResetsDecorationsOnColor(t *testing.T) {
	t.Parallel()

	bold, ok := (format{}).apply('l')
	assert.True(t, ok)
	assert.True(t, bold.bold)

	colored, ok := bold.apply('a')
	assert.True(t, ok)
	assert.False(t, colored.bold)
	assert.Equal(t, palette['a'], colored.color)

	reset, ok := colored.apply('r')
	assert.True(t, ok)
	assert.Equal(t, format{}, reset)

	_, ok = reset.apply('z')
	assert.False(t, ok)
}

func TestMessageAddsPrefixAndVars(t *testing.T) {
	t.Parallel()

	f := NewFormatter(&bytes.Buffer{}, WithColorProfile(termenv.Ascii))
	settings := domain.DefaultSettings()

	out := f.Message(settings, domain.NewNotification(domain.MsgRequestSent, domain.VarPlayer, "Bob"))

	assert.Equal(t, "TPX >>> Teleport request sent to Bob.", out)
}

func TestMessagePromptButtons(t *testing.T) {
	t.Parallel()

	f := NewFormatter(&bytes.Buffer{}, WithColorProfile(termenv.Ascii))
	prompt := domain.NewNotification(domain.MsgRequestReceived, domain.VarPlayer, "Alice")
	prompt.Prompt = true

	settings := domain.DefaultSettings()
	out := f.Message(settings, prompt)
	assert.Equal(t,
		"TPX >>> Alice wants to teleport to you.\n"+
			"[Accept] (Click to accept the teleport request: accept) "+
			"[Reject] (Click to reject the teleport request: reject)",
		out,
	)

	settings.ClickButtonsEnabled = false
	assert.Equal(t, "TPX >>> Alice wants to teleport to you.", f.Message(settings, prompt))
}

func TestMessageMissingTemplate(t *testing.T) {
	t.Parallel()

	f := NewFormatter(&bytes.Buffer{}, WithColorProfile(termenv.Ascii))
	settings := domain.DefaultSettings()
	settings.Prefix = ""
	delete(settings.Messages, domain.MsgTeleportSuccess)

	out := f.Message(settings, domain.NewNotification(domain.MsgTeleportSuccess))

	assert.Equal(t, "message not configured: teleport-success-message", out)
}
