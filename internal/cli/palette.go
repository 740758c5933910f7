package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/anime-shed/spatialplot-go/pkg/palette"
)

func (c *CLI) newPaletteCmd() *cobra.Command {
	var (
		seed  uint64
		happy bool
	)

	cmd := &cobra.Command{
		Use:   "palette [n]",
		Short: "Print n distinct hex colors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid color count %q", args[0])
			}

			var colors []string
			if happy {
				colors = palette.Happy(n)
			} else {
				if !cmd.Flags().Changed("seed") {
					seed = uint64(time.Now().UnixNano())
				}
				colors, err = palette.RandomHex(n, palette.NewRand(seed))
				if err != nil {
					return err
				}
			}

			for _, col := range colors {
				fmt.Fprintln(cmd.OutOrStdout(), col)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible colors")
	cmd.Flags().BoolVar(&happy, "happy", false, "evenly spaced hues instead of random colors")
	return cmd
}
