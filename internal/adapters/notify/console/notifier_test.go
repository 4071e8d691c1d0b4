package console

import (
	"bytes"
	"sync"
	"testing"

	"github.com/bnema/tpx/internal/adapters/render/chat"
	"github.com/bnema/tpx/internal/domain"
	"github.com/bnema/tpx/internal/ports"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

type staticDirectory map[domain.ActorID]string

func (d staticDirectory) Resolve(id domain.ActorID) (domain.Actor, bool) {
	name, ok := d[id]
	return domain.Actor{ID: id, Name: name}, ok
}

func (d staticDirectory) IsReachable(id domain.ActorID) bool {
	_, ok := d[id]
	return ok
}

func newTestNotifier(out *bytes.Buffer, settings domain.Settings) *Notifier {
	return New(
		out,
		ports.StaticSettings(settings),
		staticDirectory{"id-alice": "Alice", "id-bob": "Bob"},
		chat.WithColorProfile(termenv.Ascii),
	)
}

func TestNotifyPrefixesActorName(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	n := newTestNotifier(&out, domain.DefaultSettings())

	n.Notify("id-alice", domain.NewNotification(domain.MsgRequestSent, domain.VarPlayer, "Bob"))

	assert.Equal(t, "[Alice] TPX >>> Teleport request sent to Bob.\n", out.String())
}

func TestNotifyPromptPrintsButtonLine(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	n := newTestNotifier(&out, domain.DefaultSettings())
	prompt := domain.NewNotification(domain.MsgRequestReceived, domain.VarPlayer, "Alice")
	prompt.Prompt = true

	n.Notify("id-bob", prompt)

	assert.Equal(t,
		"[Bob] TPX >>> Alice wants to teleport to you.\n"+
			"[Bob] [Accept] (Click to accept the teleport request: accept) [Reject] (Click to reject the teleport request: reject)\n",
		out.String(),
	)
}

func TestNotifyUnknownActorFallsBackToID(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	settings := domain.DefaultSettings()
	settings.Prefix = ""
	n := newTestNotifier(&out, settings)

	n.Notify("id-ghost", domain.NewNotification(domain.MsgTeleportSuccess))

	assert.Equal(t, "[id-ghost] Teleported!\n", out.String())
}

func TestNotifySerialisesConcurrentWriters(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	settings := domain.DefaultSettings()
	settings.Prefix = ""
	n := newTestNotifier(&out, settings)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			n.Notify("id-alice", domain.NewNotification(domain.MsgTeleportSuccess))
		}()
		go func() {
			defer wg.Done()
			n.Println("&7tick")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, bytes.Count(out.Bytes(), []byte("[Alice] Teleported!\n")))
	assert.Equal(t, 20, bytes.Count(out.Bytes(), []byte("tick\n")))
}

func TestPrintRawSkipsColorCodes(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	n := newTestNotifier(&out, domain.DefaultSettings())

	n.PrintRaw("&a literal")
	n.Println("&acoloured")

	assert.Equal(t, "&a literal\ncoloured\n", out.String())
}
