package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	statusadapter "github.com/bnema/tpx/internal/adapters/render/status"
	"github.com/bnema/tpx/internal/application"
)

func writeSnapshotOutput(out io.Writer, app *app, snapshot application.Snapshot, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshot)
	}

	rendered, err := app.statusRenderer(snapshot, statusadapter.RenderOptions{})
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(out, rendered)
	return err
}
