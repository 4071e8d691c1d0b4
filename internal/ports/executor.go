package ports

import "github.com/bnema/tpx/internal/domain"

type ActionExecutor interface {
	Teleport(mover, anchor domain.ActorID)
}
