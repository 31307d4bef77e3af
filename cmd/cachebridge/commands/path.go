package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Convert paths between real, virtual and manifest form",
	}

	modes := []struct {
		mode  string
		short string
	}{
		{"virtual", "Replace the output base and exec root with placeholders"},
		{"real", "Replace placeholders with the output base and exec root"},
		{"manifest", "Make paths relative to the exec root or output base"},
	}
	for _, m := range modes {
		cmd.AddCommand(&cobra.Command{
			Use:   m.mode + " PATH...",
			Short: m.short,
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				inv, err := invocation(cmd)
				if err != nil {
					return err
				}
				for _, p := range args {
					mapped, err := c.app.MapPath(inv, m.mode, p)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), mapped)
				}
				return nil
			},
		})
	}
	return cmd
}
