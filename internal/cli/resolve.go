package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yzgyyang/portcran/internal/app"
)

func newResolveCommand() *cobra.Command {
	opts := selectorOptions{}
	cmd := &cobra.Command{
		Use:   "resolve [port]",
		Short: "Load a port with its dependencies and check their versions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), args, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runResolve(ctx context.Context, args []string, opts selectorOptions) error {
	selector, err := opts.resolve(args)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Resolve(ctx, app.ResolveRequest{
		PortsDir: portsDir(),
		Name:     selector.Name,
		Origin:   selector.Origin,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", styleOrigin.Render(result.Origin), styleDim.Render(result.PkgName+"-"+result.Version))
	for _, dep := range result.Dependencies {
		fmt.Printf("  %-14s %s:%s\n", dep.Category, dep.Target, dep.Origin)
	}
	return nil
}
