package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"github.com/yzgyyang/portcran/internal/app"
)

type selectorOptions struct {
	Name   string
	Origin string
}

func (o *selectorOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Name, "name", "", "Port name")
	cmd.Flags().StringVar(&o.Origin, "origin", "", "Port origin (category/name)")
}

// resolve fills the selector from a positional argument. An argument with
// a slash is an origin, anything else a port name.
func (o selectorOptions) resolve(args []string) (selectorOptions, error) {
	if len(args) == 0 {
		return o, nil
	}
	if o.Name != "" || o.Origin != "" {
		return o, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("give a port either as argument or with --name/--origin")
	}
	if strings.Contains(args[0], "/") {
		return selectorOptions{Origin: args[0]}, nil
	}
	return selectorOptions{Name: args[0]}, nil
}

func newShowCommand() *cobra.Command {
	opts := selectorOptions{}
	cmd := &cobra.Command{
		Use:   "show [port]",
		Short: "Print the regenerated Makefile of a port",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), args, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runShow(ctx context.Context, args []string, opts selectorOptions) error {
	selector, err := opts.resolve(args)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Show(ctx, app.ShowRequest{
		PortsDir: portsDir(),
		Name:     selector.Name,
		Origin:   selector.Origin,
	})
	if err != nil {
		return err
	}
	fmt.Print(result.Makefile)
	return nil
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [origin...]",
		Short: "Report ports whose Makefile differs from the regenerated one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), args)
		},
	}
}

func runCheck(ctx context.Context, origins []string) error {
	service := newAppService()
	result, err := service.Check(ctx, app.CheckRequest{PortsDir: portsDir(), Origins: origins})
	if err != nil {
		return err
	}
	for _, origin := range result.Drifted {
		fmt.Println(statusLine("drifted", origin, ""))
	}
	for _, failure := range result.Failed {
		fmt.Println(statusLine("failed", failure.Origin, failure.Error))
	}
	fmt.Printf("checked %d ports: %d clean, %d drifted, %d failed\n",
		result.Checked, len(result.Clean), len(result.Drifted), len(result.Failed))
	if len(result.Drifted) > 0 || len(result.Failed) > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%d of %d ports are not reproducible", len(result.Drifted)+len(result.Failed), result.Checked))
	}
	return nil
}
