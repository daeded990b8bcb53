package commands

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newURLCmd(v *viper.Viper) *cobra.Command {
	var query map[string]string

	cmd := &cobra.Command{
		Use:   "url ACTION METHOD [ARG...]",
		Short: "Build the URL of an execute",
		Long: `Build the URL of an execute from its path arguments. With a restful
router the natural resource form is printed when it resolves back to the
same execute.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRouter(cmd, v)
			if err != nil {
				return err
			}

			pathArgs := make([]any, 0, len(args)-1)
			for _, arg := range args[2:] {
				pathArgs = append(pathArgs, arg)
			}
			if len(query) > 0 {
				values := make(url.Values, len(query))
				for k, val := range query {
					values.Set(k, val)
				}
				pathArgs = append(pathArgs, values)
			}

			u, err := r.URL(args[0], args[1], pathArgs...)
			if err != nil {
				return err
			}

			if v.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), map[string]string{"url": u})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u)
			return err
		},
	}

	cmd.Flags().StringToStringVarP(&query, "query", "q", nil, "query parameters, e.g. -q page=2")
	return cmd
}
