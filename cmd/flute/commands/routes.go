package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRoutesCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the compiled executes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := loadRouter(cmd, v)
			if err != nil {
				return err
			}

			routes := r.Routes()
			w := cmd.OutOrStdout()
			if v.GetBool("json") {
				return printJSON(w, routes)
			}

			for _, ri := range routes {
				line := fmt.Sprintf("%s %s %s", verbLabel(ri.Verb), ri.Path, color.CyanString("%s.%s", ri.Action, ri.Method))
				if ri.Form != "" {
					line += " " + color.HiBlackString("[%s]", ri.Form)
				}
				if ri.Restful {
					line += " " + color.MagentaString("restful")
				}
				fmt.Fprintln(w, line)
			}
			fmt.Fprintf(w, "\n%d executes\n", len(routes))
			return nil
		},
	}
}
