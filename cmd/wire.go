package cmd

import (
	"fmt"
	"io"

	configadapter "github.com/bnema/tpx/internal/adapters/config"
	eventsadapter "github.com/bnema/tpx/internal/adapters/events/watermill"
	"github.com/bnema/tpx/internal/adapters/notify/console"
	"github.com/bnema/tpx/internal/adapters/render/chat"
	statusadapter "github.com/bnema/tpx/internal/adapters/render/status"
	"github.com/bnema/tpx/internal/adapters/world/memory"
	"github.com/bnema/tpx/internal/application"
	"github.com/bnema/tpx/internal/logging"
	"github.com/bnema/tpx/internal/ports"
	"github.com/muesli/termenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	store          *configadapter.Store
	statusRenderer func(application.Snapshot, statusadapter.RenderOptions) (string, error)
	clock          ports.Clock
}

func wireApp() (*app, error) {
	store, err := configadapter.NewStore(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire settings store: %w", err)
	}

	return &app{
		store:          store,
		statusRenderer: statusadapter.Render,
		clock:          ports.SystemClock{},
	}, nil
}

// sessionRuntime is everything one console session drives.
type sessionRuntime struct {
	logger   *zap.Logger
	world    *memory.World
	notifier *console.Notifier
	bus      *eventsadapter.Bus
	service  *application.RequestService
}

type runtimeOptions struct {
	color    string
	logLevel string
}

func (a *app) wireRuntime(out, errOut io.Writer, opts runtimeOptions) (*sessionRuntime, error) {
	level := opts.logLevel
	if level == "" {
		level = a.store.Settings().LogLevel
	}
	logger, err := logging.New(errOut, level)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	formatterOpts, err := colorOptions(opts.color)
	if err != nil {
		return nil, err
	}

	world := memory.NewWorld(logger)
	notifier := console.New(out, a.store, world, formatterOpts...)
	bus := eventsadapter.NewBus(logger)

	service := application.NewRequestService(
		world,
		notifier,
		world,
		a.store,
		application.WithClock(a.clock),
		application.WithEvents(bus),
		application.WithLogger(logger),
	)

	return &sessionRuntime{
		logger:   logger,
		world:    world,
		notifier: notifier,
		bus:      bus,
		service:  service,
	}, nil
}

func colorOptions(mode string) ([]chat.FormatterOption, error) {
	switch mode {
	case "", "auto":
		return nil, nil
	case "always":
		return []chat.FormatterOption{chat.WithColorProfile(termenv.ANSI256)}, nil
	case "never":
		return []chat.FormatterOption{chat.WithColorProfile(termenv.Ascii)}, nil
	default:
		return nil, fmt.Errorf("invalid --color %q (want auto, always or never)", mode)
	}
}
