package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vitalvas/flute/config"
)

// CheckOutput is the JSON output of the check command.
type CheckOutput struct {
	Valid    bool     `json:"valid"`
	Actions  int      `json:"actions"`
	Executes int      `json:"executes"`
	Issues   []string `json:"issues,omitempty"`
}

func newCheckCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the manifest and compile its actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), v.GetString("log-level"))
			if err != nil {
				return err
			}

			m, err := config.Load(v.GetString("config"))
			if err != nil {
				return err
			}

			r, buildErr := m.Build(config.BuildOptions{Logger: logger})
			out := CheckOutput{Valid: buildErr == nil, Actions: len(m.Actions)}
			if r != nil {
				out.Executes = len(r.Routes())
			}
			for _, err := range unjoin(buildErr) {
				out.Issues = append(out.Issues, err.Error())
			}

			w := cmd.OutOrStdout()
			if v.GetBool("json") {
				if err := printJSON(w, out); err != nil {
					return err
				}
			} else {
				for _, issue := range out.Issues {
					fmt.Fprintf(w, "%s %s\n\n", color.RedString("✗"), issue)
				}
				if out.Valid {
					fmt.Fprintf(w, "%s %d actions, %d executes\n", color.GreenString("✓"), out.Actions, out.Executes)
				}
			}

			if buildErr != nil {
				return fmt.Errorf("%d definition errors", len(out.Issues))
			}
			return nil
		},
	}
}

// unjoin flattens an errors.Join tree one level.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
