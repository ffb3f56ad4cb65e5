package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/yzgyyang/portcran/internal/core"
)

type graphEdge struct {
	from  string
	to    string
	label string
}

// Graph walks the dependencies of a port breadth first and describes them
// as a DOT digraph, optionally rendered to SVG. Dependencies that cannot
// be loaded are drawn dashed and not followed.
func (s Service) Graph(ctx context.Context, req GraphRequest) (GraphResult, error) {
	env := s.environment()
	collection := s.collection(env, req.PortsDir, core.CollectionOptions{})
	root, err := collection.Resolve(ctx, core.Selector{Name: strings.TrimSpace(req.Name), Origin: strings.TrimSpace(req.Origin)})
	if err != nil {
		return GraphResult{}, err
	}

	var (
		nodes  = []string{root.Origin()}
		broken = map[string]bool{}
		seen   = map[string]bool{root.Origin(): true}
		edges  []graphEdge
		queue  = []*core.Port{root}
	)
	for len(queue) > 0 {
		port := queue[0]
		queue = queue[1:]
		for _, category := range graphCategories(port.Depends(), req.IncludeTest) {
			for _, dep := range category.Sorted() {
				origin, _, _ := strings.Cut(dep.Origin, "@")
				edges = append(edges, graphEdge{from: port.Origin(), to: origin, label: edgeLabel(string(category.Name()))})
				if seen[origin] {
					continue
				}
				seen[origin] = true
				nodes = append(nodes, origin)
				target, err := collection.ResolveOrigin(ctx, origin)
				if err != nil {
					log.Ctx(ctx).Warn().Str("origin", origin).Err(err).Msg("dependency not loaded")
					broken[origin] = true
					continue
				}
				queue = append(queue, target)
			}
		}
	}

	dot := toDOT(nodes, edges, broken)
	result := GraphResult{Root: root.Origin(), DOT: dot, Nodes: len(nodes), Edges: len(edges)}
	if req.SVG {
		var buf bytes.Buffer
		if err := s.Renderer.RenderSVG(ctx, dot, &buf); err != nil {
			return GraphResult{}, err
		}
		result.SVG = buf.Bytes()
	}
	return result, nil
}

func graphCategories(depends *core.Depends, includeTest bool) []*core.DependsCategory {
	categories := []*core.DependsCategory{depends.Build, depends.Lib, depends.Run}
	if includeTest {
		categories = append(categories, depends.Test)
	}
	return categories
}

// edgeLabel shortens BUILD_DEPENDS to build.
func edgeLabel(category string) string {
	return strings.ToLower(strings.TrimSuffix(category, "_DEPENDS"))
}

func toDOT(nodes []string, edges []graphEdge, broken map[string]bool) string {
	var buf bytes.Buffer
	buf.WriteString("digraph ports {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded];\n")
	buf.WriteString("\n")
	for _, node := range nodes {
		if broken[node] {
			fmt.Fprintf(&buf, "  %q [style=\"rounded,dashed\"];\n", node)
			continue
		}
		fmt.Fprintf(&buf, "  %q;\n", node)
	}
	buf.WriteString("\n")
	for _, edge := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", edge.from, edge.to, edge.label)
	}
	buf.WriteString("}\n")
	return buf.String()
}
