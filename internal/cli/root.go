package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yzgyyang/portcran/internal/app"
	"github.com/yzgyyang/portcran/internal/core"
	"github.com/yzgyyang/portcran/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "PORTCRAN"

const defaultPortsDir = "/usr/ports"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	PortsDir   string
	TabWidth   int
	PageWidth  int
	Maintainer string
	FullName   string
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		printError(errorMessage(err))
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:           "portcran",
		Short:         "Generate and maintain FreeBSD ports of CRAN packages",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	flags.StringVar(&cfg.PortsDir, "portsdir", defaultPortsDir, "Ports tree root")
	flags.IntVar(&cfg.TabWidth, "tab-width", types.DefaultTabWidth, "Tab width used to align Makefile values")
	flags.IntVar(&cfg.PageWidth, "page-width", types.DefaultPageWidth, "Column at which Makefile values wrap")
	flags.StringVar(&cfg.Maintainer, "maintainer", "", "Maintainer address of new ports")
	flags.StringVar(&cfg.FullName, "full-name", "", "Maintainer name written to the Makefile header")
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("portsdir", flags.Lookup("portsdir"))
	_ = viper.BindPFlag("tab_width", flags.Lookup("tab-width"))
	_ = viper.BindPFlag("page_width", flags.Lookup("page-width"))
	_ = viper.BindPFlag("maintainer", flags.Lookup("maintainer"))
	_ = viper.BindPFlag("full_name", flags.Lookup("full-name"))

	cmd.AddCommand(newCreateCommand())
	cmd.AddCommand(newUpdateCommand())
	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newGraphCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("portcran")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/portcran")
	_ = viper.ReadInConfig()
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// newAppService returns the default service with the maintainer identity
// and layout settings taken from flags, environment and config file.
func newAppService() app.Service {
	service := app.NewService()
	if address := strings.TrimSpace(viper.GetString("maintainer")); address != "" {
		service.Platform.Address = address
	}
	if name := strings.TrimSpace(viper.GetString("full_name")); name != "" {
		service.Platform.FullName = name
	}
	if width := viper.GetInt("tab_width"); width > 0 {
		service.Platform.TabWidth = width
	}
	if width := viper.GetInt("page_width"); width > 0 {
		service.Platform.PageWidth = width
	}
	return service
}

func portsDir() string {
	if dir := strings.TrimSpace(viper.GetString("portsdir")); dir != "" {
		return dir
	}
	return defaultPortsDir
}

func exitCodeForError(err error) int {
	var cycle *core.CyclicDependencyError
	if errors.As(err, &cycle) {
		return 3
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodeNotFound, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
