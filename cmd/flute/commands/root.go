// Package commands provides the flute command line: it compiles an action
// manifest and lists, matches, reverses or serves its executes.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vitalvas/flute/config"
	"github.com/vitalvas/flute/jsonengine"
	"github.com/vitalvas/flute/mux"
)

// NewRootCmd returns the flute command with all subcommands. Flags can be
// set from FLUTE_ prefixed environment variables, e.g. FLUTE_CONFIG.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("FLUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "flute",
		Short: "Inspect and serve action manifests",
		Long: `flute compiles the actions declared in an application manifest and
reports how requests reach them.

  flute check                        Validate the manifest and its actions
  flute routes                       List the compiled executes
  flute match /products/3/purchases/ Resolve a request path
  flute url products index 3         Build the URL of an execute
  flute serve                        Serve playground executes echoing their arguments`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if v.GetBool("no-color") {
				color.NoColor = true
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "flute.yaml", "application manifest")
	pf.Bool("json", false, "output in JSON format")
	pf.Bool("no-color", false, "disable colored output")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	if err := v.BindPFlags(pf); err != nil {
		panic(err)
	}

	root.AddCommand(
		newCheckCmd(v),
		newRoutesCmd(v),
		newMatchCmd(v),
		newURLCmd(v),
		newServeCmd(v),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "flute",
		ReportTimestamp: true,
	}), nil
}

// loadRouter builds the playground router of the configured manifest.
func loadRouter(cmd *cobra.Command, v *viper.Viper) (*mux.Router, error) {
	logger, err := newLogger(cmd.ErrOrStderr(), v.GetString("log-level"))
	if err != nil {
		return nil, err
	}
	return buildRouter(v, logger)
}

func buildRouter(v *viper.Viper, logger *log.Logger, mws ...mux.MiddlewareFunc) (*mux.Router, error) {
	m, err := config.Load(v.GetString("config"))
	if err != nil {
		return nil, err
	}
	return m.Build(config.BuildOptions{Logger: logger, Middleware: mws})
}

var jsonOutput = jsonengine.New(jsonengine.Options{Indent: "  "})

func printJSON(w io.Writer, v any) error {
	data, err := jsonOutput.Serialize(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func verbLabel(verb string) string {
	if verb == "" {
		verb = "*"
	}
	label := fmt.Sprintf("%-7s", verb)

	switch verb {
	case "GET", "HEAD":
		return color.GreenString(label)
	case "POST":
		return color.YellowString(label)
	case "PUT", "PATCH":
		return color.BlueString(label)
	case "DELETE":
		return color.RedString(label)
	}
	return color.WhiteString(label)
}
