package memory

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bnema/tpx/internal/domain"
	"github.com/bnema/tpx/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrEmptyName = errors.New("actor name is empty")

type member struct {
	actor    domain.Actor
	location domain.Location
}

// World is an in-memory set of online actors and their positions.
type World struct {
	mu       sync.RWMutex
	logger   *zap.Logger
	members  map[domain.ActorID]*member
	sessions uint64
}

var (
	_ ports.ActorDirectory = (*World)(nil)
	_ ports.ActionExecutor = (*World)(nil)
)

func NewWorld(logger *zap.Logger) *World {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &World{
		logger:  logger.Named("world"),
		members: make(map[domain.ActorID]*member),
	}
}

// ActorIDFor derives the stable identifier of name. Names differing only in
// case share an identifier.
func ActorIDFor(name string) domain.ActorID {
	key := strings.ToLower(strings.TrimSpace(name))
	return domain.ActorID(uuid.NewSHA1(uuid.NameSpaceOID, []byte("actor:"+key)).String())
}

// Join brings name online at loc. Joining again moves the actor and keeps
// its identifier but starts a new session.
func (w *World) Join(name string, loc domain.Location) (domain.Actor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Actor{}, ErrEmptyName
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.sessions++
	actor := domain.Actor{ID: ActorIDFor(name), Name: name, Session: w.sessions}
	w.members[actor.ID] = &member{actor: actor, location: loc}
	w.logger.Debug("actor joined",
		zap.String("actor", name),
		zap.Uint64("session", actor.Session),
		zap.Stringer("location", loc))
	return actor, nil
}

func (w *World) Leave(id domain.ActorID) (domain.Actor, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	m, ok := w.members[id]
	if !ok {
		return domain.Actor{}, false
	}
	delete(w.members, id)
	w.logger.Debug("actor left", zap.String("actor", m.actor.Name))
	return m.actor, true
}

func (w *World) FindByName(name string) (domain.Actor, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	m, ok := w.members[ActorIDFor(name)]
	if !ok {
		return domain.Actor{}, fmt.Errorf("find actor %q: %w", name, domain.ErrActorNotFound)
	}
	return m.actor, nil
}

// Online lists the online actors ordered by name.
func (w *World) Online() []domain.Actor {
	w.mu.RLock()
	actors := make([]domain.Actor, 0, len(w.members))
	for _, m := range w.members {
		actors = append(actors, m.actor)
	}
	w.mu.RUnlock()

	sort.Slice(actors, func(i, j int) bool {
		return strings.ToLower(actors[i].Name) < strings.ToLower(actors[j].Name)
	})
	return actors
}

func (w *World) Location(id domain.ActorID) (domain.Location, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	m, ok := w.members[id]
	if !ok {
		return domain.Location{}, false
	}
	return m.location, true
}

func (w *World) Resolve(id domain.ActorID) (domain.Actor, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	m, ok := w.members[id]
	if !ok {
		return domain.Actor{}, false
	}
	return m.actor, true
}

func (w *World) IsReachable(id domain.ActorID) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	_, ok := w.members[id]
	return ok
}

// Teleport moves mover onto anchor's current location. It does nothing when
// either side is offline.
func (w *World) Teleport(mover, anchor domain.ActorID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	m, ok := w.members[mover]
	if !ok {
		w.logger.Warn("teleport skipped, mover offline", zap.String("mover", string(mover)))
		return
	}
	a, ok := w.members[anchor]
	if !ok {
		w.logger.Warn("teleport skipped, anchor offline", zap.String("anchor", string(anchor)))
		return
	}

	m.location = a.location
	w.logger.Info("actor teleported",
		zap.String("mover", m.actor.Name),
		zap.String("anchor", a.actor.Name),
		zap.Stringer("location", m.location),
	)
}
