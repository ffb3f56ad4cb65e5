package adapters

import (
	"context"
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/goccy/go-graphviz"

	"github.com/yzgyyang/portcran/internal/ports"
)

// GraphvizAdapter renders DOT with the embedded Graphviz build.
type GraphvizAdapter struct{}

func NewGraphvizAdapter() GraphvizAdapter {
	return GraphvizAdapter{}
}

func (a GraphvizAdapter) RenderSVG(ctx context.Context, dot string, w io.Writer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return renderError("failed to initialise graphviz", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse DOT graph").
			WithCause(err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, graphviz.SVG, w); err != nil {
		return renderError("failed to render graph", err)
	}
	return nil
}

func renderError(msg string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(msg).
		WithCause(err)
}

var _ ports.GraphRendererPort = GraphvizAdapter{}
