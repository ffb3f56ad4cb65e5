package ports

import (
	"context"
	"io"
)

// GraphRendererPort renders a DOT graph description.
type GraphRendererPort interface {
	RenderSVG(ctx context.Context, dot string, w io.Writer) error
}
