package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/cachebridge/internal/ui/output"
	"go.trai.ch/cachebridge/internal/ui/style"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load and merge the dependency caches a manifest lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := invocation(cmd)
			if err != nil {
				return err
			}
			inv.Label, _ = cmd.Flags().GetString("label")
			inv.Manifest, _ = cmd.Flags().GetString("manifest")
			inv.Jobs, _ = cmd.Flags().GetInt("jobs")

			report, err := c.app.Check(cmd.Context(), inv)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			r := output.Renderer(w)
			key := style.Key(r)
			_, _ = fmt.Fprintf(w, "%s %s\n", style.Status(r, true).Render(style.Check), report.Label)
			manifest := report.Manifest
			if !report.ManifestFound {
				manifest += " (not found)"
			}
			_, _ = fmt.Fprintf(w, "  %s %s\n", key.Render("manifest:"), manifest)
			_, _ = fmt.Fprintf(w, "  %s %d\n", key.Render("artifacts:"), report.Artifacts)
			_, _ = fmt.Fprintf(w, "  %s %d\n", key.Render("configurations:"), report.Configurations)
			_, _ = fmt.Fprintf(w, "  %s %d\n", key.Render("results:"), report.Results)
			_, _ = fmt.Fprintf(w, "  %s %d\n", key.Render("carried targets:"), report.CarriedTargets)
			return nil
		},
	}
	cmd.Flags().StringP("label", "l", "", "Label of the current unit, e.g. @ws//pkg:name")
	cmd.Flags().StringP("manifest", "m", "", "Path of the cache manifest, relative to the exec root")
	cmd.Flags().IntP("jobs", "j", 0, "Number of dependency artifacts read concurrently")
	return cmd
}
