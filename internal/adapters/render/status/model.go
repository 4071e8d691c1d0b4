package status

import (
	"errors"
	"io"
	"slices"

	"github.com/bnema/tpx/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	snapshot application.Snapshot
	opts     RenderOptions
	styles   styles
	output   string
}

func newModel(snapshot application.Snapshot, opts RenderOptions) model {
	return model{
		snapshot: bySoonestExpiry(snapshot),
		opts:     opts,
		styles:   newStyles(),
	}
}

// bySoonestExpiry orders a copy of the snapshot so the request about to
// expire and the cooldown about to lift come first.
func bySoonestExpiry(snapshot application.Snapshot) application.Snapshot {
	snapshot.Requests = slices.Clone(snapshot.Requests)
	slices.SortStableFunc(snapshot.Requests, func(a, b application.RequestStatus) int {
		return a.Request.ExpiresAt.Compare(b.Request.ExpiresAt)
	})

	snapshot.Cooldowns = slices.Clone(snapshot.Cooldowns)
	slices.SortStableFunc(snapshot.Cooldowns, func(a, b application.CooldownStatus) int {
		return a.Until.Compare(b.Until)
	})

	return snapshot
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.snapshot, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render draws a one-shot status board for snapshot.
func Render(snapshot application.Snapshot, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(snapshot, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
