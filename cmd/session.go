package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	configadapter "github.com/bnema/tpx/internal/adapters/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type sessionOptions struct {
	runtimeOptions
	script      string
	watchConfig bool
	logEvents   bool
}

func newSessionCmd(app *app) *cobra.Command {
	var opts sessionOptions

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run a teleport console over stdin or a script",
		Long: `Run a line-oriented console where actors join, send teleport requests and
answer them. Type "help" inside the session for the command list. The session
ends on quit, exit or end of input; pending requests and countdowns are dropped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := cmd.InOrStdin()
			if opts.script != "" {
				file, err := os.Open(opts.script)
				if err != nil {
					return fmt.Errorf("open session script: %w", err)
				}
				defer file.Close()
				in = file
			}

			rt, err := app.wireRuntime(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.runtimeOptions)
			if err != nil {
				return err
			}

			return runSession(cmd.Context(), app, rt, in, opts)
		},
	}

	cmd.Flags().StringVar(&opts.script, "script", "", "Read console commands from a file instead of stdin")
	cmd.Flags().BoolVar(&opts.watchConfig, "watch-config", false, "Reload settings when the config files change")
	cmd.Flags().BoolVar(&opts.logEvents, "log-events", false, "Log every request lifecycle event to stderr")
	cmd.Flags().StringVar(&opts.color, "color", "auto", "Colour output: auto, always or never")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	return cmd
}

func runSession(ctx context.Context, app *app, rt *sessionRuntime, in io.Reader, opts sessionOptions) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	defer func() {
		rt.service.Shutdown()
		cancel()
		wg.Wait()
		err = errors.Join(err, rt.bus.Close())
		_ = rt.logger.Sync()
	}()

	if opts.logEvents {
		events, err := rt.bus.Subscribe(ctx)
		if err != nil {
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			for event := range events {
				rt.logger.Info("lifecycle event",
					zap.String("type", string(event.Type)),
					zap.String("request", event.RequestID),
					zap.String("requester", string(event.Requester)),
					zap.String("recipient", string(event.Recipient)),
					zap.String("detail", event.Detail),
				)
			}
		}()
	}

	if opts.watchConfig {
		watcher, err := configadapter.NewWatcher(app.store, rt.logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			watcher.Stop()
			return err
		}
		defer watcher.Stop()
	}

	c := &shell{app: app, rt: rt}
	rt.notifier.Println(`&7tpx session started, type "help" for commands`)

	lines, readErrs := readLines(ctx, in)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErrs:
					return fmt.Errorf("read console input: %w", err)
				default:
					return nil
				}
			}
			if errors.Is(c.exec(ctx, line), errQuit) {
				return nil
			}
		}
	}
}

func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errs <- err
		}
	}()

	return lines, errs
}
