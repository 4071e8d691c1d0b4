package ports

import "github.com/bnema/tpx/internal/domain"

// ActorDirectory resolves online actors. Resolve returns the current session
// of id; callers holding an earlier Actor compare sessions to detect a rejoin.
type ActorDirectory interface {
	Resolve(id domain.ActorID) (domain.Actor, bool)
	IsReachable(id domain.ActorID) bool
}
