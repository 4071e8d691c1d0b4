package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bnema/tpx/internal/adapters/render/chat"
	"github.com/bnema/tpx/internal/domain"
	"github.com/bnema/tpx/internal/ports"
)

// Notifier prints each notification as "[name] text" lines on a shared
// writer. Writes from timer goroutines and the session loop are serialised.
type Notifier struct {
	mu        sync.Mutex
	out       io.Writer
	formatter *chat.Formatter
	settings  ports.SettingsProvider
	directory ports.ActorDirectory
}

var _ ports.Notifier = (*Notifier)(nil)

func New(out io.Writer, settings ports.SettingsProvider, directory ports.ActorDirectory, opts ...chat.FormatterOption) *Notifier {
	return &Notifier{
		out:       out,
		formatter: chat.NewFormatter(out, opts...),
		settings:  settings,
		directory: directory,
	}
}

func (n *Notifier) Notify(actor domain.ActorID, msg domain.Notification) {
	name := string(actor)
	if resolved, ok := n.directory.Resolve(actor); ok {
		name = resolved.DisplayName()
	}

	text := n.formatter.Message(n.settings.Settings(), msg)

	n.mu.Lock()
	defer n.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(n.out, "[%s] %s\n", name, line)
	}
}

// Println writes a colourised line that is not addressed to any actor.
func (n *Notifier) Println(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, n.formatter.Colorize(text))
}

// PrintRaw writes text verbatim followed by a newline.
func (n *Notifier) PrintRaw(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, text)
}
