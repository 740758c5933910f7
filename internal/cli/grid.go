package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/anime-shed/spatialplot-go/pkg/layout"
)

func (c *CLI) newGridCmd() *cobra.Command {
	var cellWidth, cellHeight int

	cmd := &cobra.Command{
		Use:   "grid [n]",
		Short: "Show the subplot grid used for n panels",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.bind(cmd, "ncols")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid panel count %q", args[0])
			}
			g, err := layout.NewGrid(n, c.v.GetInt("ncols"))
			if err != nil {
				return err
			}
			w, h := g.FigureSize(cellWidth, cellHeight)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rows: %d\ncols: %d\nunused: %d\nfigure: %dx%d\n", g.Rows, g.Cols, g.Unused(), w, h)
			return nil
		},
	}

	cmd.Flags().Int("ncols", 0, "maximum number of columns")
	cmd.Flags().IntVar(&cellWidth, "cell-width", layout.DefaultCellWidth, "width of one cell")
	cmd.Flags().IntVar(&cellHeight, "cell-height", layout.DefaultCellHeight, "height of one cell")
	return cmd
}
