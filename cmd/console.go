package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/bnema/tpx/internal/adapters/render/chat"
	"github.com/bnema/tpx/internal/domain"
	"go.uber.org/zap"
)

var errQuit = errors.New("quit")

var defaultSpawn = domain.Location{World: "world", X: 0, Y: 64, Z: 0}

var teleportSubCommands = []string{chat.AcceptCommand, chat.RejectCommand, "help"}

var consoleHelp = []string{
	"&e===== &fConsole commands &e=====",
	"&fjoin <name> [world x y z] &7- &fbring an actor online",
	"&fleave <name> &7- &ftake an actor offline",
	"&fwho &7- &flist online actors",
	"&fwhere <name> &7- &fshow an actor's location",
	"&fas <name> [<player>|accept|reject|help] &7- &frun the teleport command as an actor",
	"&fcomplete <name> <prefix> &7- &flist completions for the teleport command",
	"&fstatus [--json] &7- &fshow pending requests and cooldowns",
	"&freload &7- &freload settings from disk",
	"&fwait <duration> &7- &fpause the console, e.g. wait 3s",
	"&fquit &7- &fend the session",
}

// shell interprets session lines against one runtime.
type shell struct {
	app *app
	rt  *sessionRuntime
}

func (c *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "quit", "exit":
		return errQuit
	case "help":
		for _, line := range consoleHelp {
			c.rt.notifier.Println(line)
		}
	case "join":
		c.join(args)
	case "leave":
		c.leave(args)
	case "who":
		c.who()
	case "where":
		c.where(args)
	case "as":
		c.as(ctx, args)
	case "complete":
		c.complete(args)
	case "status":
		c.status(args)
	case "reload":
		c.reload()
	case "wait":
		return c.wait(ctx, args)
	default:
		c.errorf("unknown command %q, type help for the list", name)
	}

	return nil
}

func (c *shell) infof(format string, args ...any) {
	c.rt.notifier.Println("&7" + fmt.Sprintf(format, args...))
}

func (c *shell) errorf(format string, args ...any) {
	c.rt.notifier.Println("&c" + fmt.Sprintf(format, args...))
}

func (c *shell) join(args []string) {
	if len(args) != 1 && len(args) != 5 {
		c.errorf("usage: join <name> [world x y z]")
		return
	}

	loc := defaultSpawn
	if len(args) == 5 {
		parsed, err := parseLocation(args[1:])
		if err != nil {
			c.errorf("join: %v", err)
			return
		}
		loc = parsed
	}

	actor, err := c.rt.world.Join(sanitizeForTerminal(args[0]), loc)
	if err != nil {
		c.errorf("join: %v", err)
		return
	}
	c.infof("%s joined at %s", actor.Name, loc)
}

func parseLocation(args []string) (domain.Location, error) {
	coords := make([]float64, 3)
	for i, raw := range args[1:] {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Location{}, fmt.Errorf("invalid coordinate %q", raw)
		}
		coords[i] = value
	}

	return domain.Location{World: args[0], X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

func (c *shell) leave(args []string) {
	if len(args) != 1 {
		c.errorf("usage: leave <name>")
		return
	}

	actor, err := c.rt.world.FindByName(args[0])
	if err != nil {
		c.errorf("%s is not online", args[0])
		return
	}
	c.rt.world.Leave(actor.ID)
	c.infof("%s left", actor.Name)
}

func (c *shell) who() {
	online := c.rt.world.Online()
	if len(online) == 0 {
		c.infof("nobody is online")
		return
	}

	names := make([]string, 0, len(online))
	for _, actor := range online {
		names = append(names, actor.Name)
	}
	c.infof("online (%d): %s", len(names), strings.Join(names, ", "))
}

func (c *shell) where(args []string) {
	if len(args) != 1 {
		c.errorf("usage: where <name>")
		return
	}

	actor, err := c.rt.world.FindByName(args[0])
	if err != nil {
		c.errorf("%s is not online", args[0])
		return
	}
	loc, _ := c.rt.world.Location(actor.ID)
	c.infof("%s is at %s", actor.Name, loc)
}

func (c *shell) as(ctx context.Context, args []string) {
	if len(args) == 0 {
		c.errorf("usage: as <name> [<player>|accept|reject|help]")
		return
	}

	actor, err := c.rt.world.FindByName(args[0])
	if err != nil {
		c.errorf("%s is not online, only online actors can use the teleport command", args[0])
		return
	}

	c.teleportCommand(ctx, actor, args[1:])
}

// teleportCommand follows the in-game grammar: a sub-command, a single
// target name, or help for anything else.
func (c *shell) teleportCommand(ctx context.Context, actor domain.Actor, args []string) {
	svc := c.rt.service

	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case chat.AcceptCommand:
			_, err := svc.Accept(ctx, actor.ID)
			c.refused(actor, err)
			return
		case chat.RejectCommand:
			_, err := svc.Reject(ctx, actor.ID)
			c.refused(actor, err)
			return
		case "help":
			c.teleportHelp(actor)
			return
		}
	}

	if len(args) == 1 {
		target, err := c.rt.world.FindByName(args[0])
		if err != nil {
			c.rt.notifier.Notify(actor.ID, domain.NewNotification(domain.MsgPlayerNotFound, domain.VarPlayer, args[0]))
			return
		}

		_, err = svc.Send(ctx, actor.ID, target.ID)
		c.refused(actor, err)
		return
	}

	c.teleportHelp(actor)
}

// refused records why a command did nothing. The actor has already been
// told through a notification.
func (c *shell) refused(actor domain.Actor, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, domain.ErrServiceClosed) {
		c.errorf("the teleport service is shut down")
		return
	}
	c.rt.logger.Debug("teleport command refused", zap.String("actor", actor.Name), zap.Error(err))
}

func (c *shell) teleportHelp(actor domain.Actor) {
	prefix := c.app.store.Settings().Prefix
	lines := []string{
		"&e===== &fTeleport command help &e=====",
		"&fas " + actor.Name + " <player> &7- &fsend a teleport request",
		"&fas " + actor.Name + " accept &7- &faccept the pending request",
		"&fas " + actor.Name + " reject &7- &freject the pending request",
		"&fas " + actor.Name + " help &7- &fshow this help",
	}
	for _, line := range lines {
		c.rt.notifier.Println("[" + actor.Name + "] " + prefix + line)
	}
}

func (c *shell) complete(args []string) {
	if len(args) == 0 || len(args) > 2 {
		c.errorf("usage: complete <name> <prefix>")
		return
	}
	if _, err := c.rt.world.FindByName(args[0]); err != nil {
		c.errorf("%s is not online", args[0])
		return
	}

	prefix := ""
	if len(args) == 2 {
		prefix = args[1]
	}

	matches := c.completions(prefix)
	if len(matches) == 0 {
		c.infof("no completions")
		return
	}
	c.rt.notifier.PrintRaw(strings.Join(matches, " "))
}

// completions lists sub-commands then online names starting with prefix,
// ignoring case.
func (c *shell) completions(prefix string) []string {
	candidates := append([]string{}, teleportSubCommands...)
	for _, actor := range c.rt.world.Online() {
		candidates = append(candidates, actor.Name)
	}

	prefix = strings.ToLower(prefix)
	matches := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if strings.HasPrefix(strings.ToLower(candidate), prefix) {
			matches = append(matches, candidate)
		}
	}
	return matches
}

func (c *shell) status(args []string) {
	asJSON := len(args) == 1 && args[0] == "--json"
	if len(args) > 1 || (len(args) == 1 && !asJSON) {
		c.errorf("usage: status [--json]")
		return
	}

	var buf bytes.Buffer
	if err := writeSnapshotOutput(&buf, c.app, c.rt.service.Snapshot(), asJSON); err != nil {
		c.errorf("status: %v", err)
		return
	}
	c.rt.notifier.PrintRaw(strings.TrimRight(buf.String(), "\n"))
}

func (c *shell) reload() {
	if err := c.app.store.Reload(); err != nil {
		c.errorf("reload failed, keeping previous settings: %v", err)
		return
	}
	c.infof("settings reloaded from %s", c.app.store.Dir())
}

func (c *shell) wait(ctx context.Context, args []string) error {
	if len(args) != 1 {
		c.errorf("usage: wait <duration>")
		return nil
	}

	d, err := time.ParseDuration(args[0])
	if err != nil {
		c.errorf("wait: invalid duration %q", args[0])
		return nil
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
