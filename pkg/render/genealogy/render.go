package genealogy

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stabilizer/pkg/errors"
)

// RenderSVG lays out a DOT graph with Graphviz and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// Render produces the recorded history in the given format.
func Render(ctx context.Context, r *Recorder, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if format == FormatDOT {
		return []byte(r.DOT()), nil
	}
	return RenderSVG(ctx, r.DOT())
}

// ValidateFormat rejects formats [Render] cannot produce.
func ValidateFormat(format string) error {
	if format != FormatDOT && format != FormatSVG {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported genealogy format %q (want %s or %s)", format, FormatDOT, FormatSVG)
	}
	return nil
}
