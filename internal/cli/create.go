package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yzgyyang/portcran/internal/app"
)

type createOptions struct {
	Distfile      string
	PortDir       string
	LicenseTables []string
	Makesum       bool
	DryRun        bool
}

func newCreateCommand() *cobra.Command {
	return newCranCommand("create", "Create or refresh the port of a CRAN package", false)
}

func newUpdateCommand() *cobra.Command {
	return newCranCommand("update", "Refresh the existing port of a CRAN package", true)
}

func newCranCommand(use string, short string, requireExisting bool) *cobra.Command {
	opts := createOptions{}
	cmd := &cobra.Command{
		Use:   use + " <package>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), cmd, args[0], requireExisting, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Distfile, "distfile", "", "Source tarball of the package")
	cmd.Flags().StringVar(&opts.PortDir, "port-dir", "", "Directory to write the port to")
	cmd.Flags().StringSliceVar(&opts.LicenseTables, "license-table", nil, "YAML tables mapping DESCRIPTION licenses to port licenses")
	cmd.Flags().BoolVar(&opts.Makesum, "makesum", false, "Run make makesum after writing the port")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the Makefile instead of writing it")
	_ = viper.BindPFlag("license_tables", cmd.Flags().Lookup("license-table"))
	_ = viper.BindPFlag("makesum", cmd.Flags().Lookup("makesum"))
	return cmd
}

func runCreate(ctx context.Context, cmd *cobra.Command, name string, requireExisting bool, opts createOptions) error {
	service := newAppService()
	result, err := service.CreateCran(ctx, app.CreateRequest{
		PortsDir:        portsDir(),
		Name:            name,
		Distfile:        opts.Distfile,
		PortDir:         opts.PortDir,
		LicenseTables:   resolveStrings(cmd, opts.LicenseTables, "license_tables", "license-table"),
		RequireExisting: requireExisting,
		Makesum:         resolveBool(cmd, opts.Makesum, "makesum", "makesum"),
		DryRun:          opts.DryRun,
	})
	if err != nil {
		return err
	}
	if !result.Written {
		fmt.Print(result.Makefile)
		return nil
	}
	status := "created"
	if result.Updated {
		status = "updated"
	}
	fmt.Println(statusLine(status, result.Origin, result.Dir))
	return nil
}
