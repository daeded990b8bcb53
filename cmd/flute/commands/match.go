package commands

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vitalvas/flute/mux"
)

// MatchOutput is the JSON output of the match command.
type MatchOutput struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Status      int               `json:"status"`
	Route       *mux.RouteInfo    `json:"route,omitempty"`
	MappingPath string            `json:"mappingPath,omitempty"`
	Vars        map[string]string `json:"vars,omitempty"`
}

func newMatchCmd(v *viper.Viper) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "match PATH",
		Short: "Resolve a request path to an execute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRouter(cmd, v)
			if err != nil {
				return err
			}

			req, err := http.NewRequestWithContext(cmd.Context(), strings.ToUpper(method), args[0], nil)
			if err != nil {
				return err
			}

			var match mux.RouteMatch
			matched := r.Match(req, &match)

			out := MatchOutput{Method: req.Method, Path: req.URL.Path, Status: http.StatusOK}
			switch {
			case matched:
				out.Route = match.Route
				out.MappingPath = match.MappingPath
				out.Vars = make(map[string]string, len(match.Values))
				for i, value := range match.Values {
					if match.Present[i] {
						out.Vars[fmt.Sprintf("arg%d", i)] = value
					}
				}
			case errors.Is(match.MatchErr, mux.ErrMethodMismatch):
				out.Status = http.StatusMethodNotAllowed
			default:
				out.Status = http.StatusNotFound
			}

			w := cmd.OutOrStdout()
			if v.GetBool("json") {
				if err := printJSON(w, out); err != nil {
					return err
				}
			} else {
				printMatch(w, out)
			}

			if !matched {
				return fmt.Errorf("%s %s: %w", out.Method, out.Path, match.MatchErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "request method")
	return cmd
}

func printMatch(w io.Writer, out MatchOutput) {
	if out.Route == nil {
		fmt.Fprintf(w, "%s %s %s\n", verbLabel(out.Method), out.Path, color.RedString("%d %s", out.Status, http.StatusText(out.Status)))
		return
	}

	fmt.Fprintf(w, "%s %s -> %s\n", verbLabel(out.Method), out.Path, color.CyanString("%s.%s", out.Route.Action, out.Route.Method))
	if out.MappingPath != "" {
		fmt.Fprintf(w, "  mapping path: %s\n", out.MappingPath)
	}
	fmt.Fprintf(w, "  pattern:      %s\n", out.Route.Path)
	for _, key := range slices.Sorted(maps.Keys(out.Vars)) {
		fmt.Fprintf(w, "  %-13s %s\n", key+":", out.Vars[key])
	}
}
