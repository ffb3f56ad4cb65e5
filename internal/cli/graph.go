package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yzgyyang/portcran/internal/app"
)

type graphOptions struct {
	selectorOptions
	SVG         string
	IncludeTest bool
}

func newGraphCommand() *cobra.Command {
	opts := graphOptions{}
	cmd := &cobra.Command{
		Use:   "graph [port]",
		Short: "Print the dependency graph of a port in DOT",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd.Context(), cmd, args, opts)
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.SVG, "svg", "", "Render the graph as SVG into this file")
	cmd.Flags().BoolVar(&opts.IncludeTest, "include-test", false, "Follow TEST_DEPENDS as well")
	_ = viper.BindPFlag("graph_include_test", cmd.Flags().Lookup("include-test"))
	return cmd
}

func runGraph(ctx context.Context, cmd *cobra.Command, args []string, opts graphOptions) error {
	selector, err := opts.resolve(args)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Graph(ctx, app.GraphRequest{
		PortsDir:    portsDir(),
		Name:        selector.Name,
		Origin:      selector.Origin,
		IncludeTest: resolveBool(cmd, opts.IncludeTest, "graph_include_test", "include-test"),
		SVG:         opts.SVG != "",
	})
	if err != nil {
		return err
	}
	if opts.SVG == "" {
		fmt.Print(result.DOT)
		return nil
	}
	if err := os.WriteFile(opts.SVG, result.SVG, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", opts.SVG)).
			WithCause(err)
	}
	log.Info().
		Str("root", result.Root).
		Int("nodes", result.Nodes).
		Int("edges", result.Edges).
		Str("file", opts.SVG).
		Msg("dependency graph rendered")
	return nil
}
