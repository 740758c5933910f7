package cli

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anime-shed/spatialplot-go/internal/imageio"
	"github.com/anime-shed/spatialplot-go/internal/logger"
	"github.com/anime-shed/spatialplot-go/internal/processor"
	"github.com/anime-shed/spatialplot-go/internal/service"
	"github.com/anime-shed/spatialplot-go/internal/strategy"
)

var normalizeKeys = []string{"pmin", "pmax", "eps", "clip", "label", "mode", "ncols"}

type normalizeOpts struct {
	channels []int
	out      string
	layout   string
	seed     uint64
	happy    bool
	cellSize int
}

func (c *CLI) newNormalizeCmd() *cobra.Command {
	var opts normalizeOpts

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize an image and print per-channel statistics",
		Long: `Normalize rescales every channel so its pmin percentile maps to 0 and its pmax
percentile to 1. Statistics are printed for the input channels; --out renders
the normalized channels to an image file.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return c.bind(cmd, normalizeKeys...)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNormalize(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.Float64("pmin", 0, "low percentile mapped to 0")
	f.Float64("pmax", 0, "high percentile mapped to 1")
	f.Float64("eps", 0, "added to the denominator to avoid division by zero")
	f.Bool("clip", false, "clamp output into [0, 1]")
	f.String("label", "", "label carried by the result")
	f.String("mode", "", "channel extraction: auto, gray or rgb")
	f.Int("ncols", 0, "montage columns")
	f.IntSliceVar(&opts.channels, "channels", nil, "keep only these channel indices")
	f.StringVarP(&opts.out, "out", "o", "", "write a rendering to this file (png, jpg, tif, ...)")
	f.StringVar(&opts.layout, "layout", "montage", "rendering layout: montage or composite")
	f.Uint64Var(&opts.seed, "seed", 0, "color seed (0 picks one at random)")
	f.BoolVar(&opts.happy, "happy", false, "use an evenly spaced palette instead of random colors")
	f.IntVar(&opts.cellSize, "cell", 0, "montage cell size in pixels (0 keeps the image size)")
	return cmd
}

func (c *CLI) runNormalize(cmd *cobra.Command, path string, opts normalizeOpts) error {
	decoded, err := imageio.ReadFile(path)
	if err != nil {
		return err
	}
	strat, err := strategy.ForName(c.v.GetString("mode"))
	if err != nil {
		return err
	}

	nopts := c.options()
	res, err := processor.NewProcessor(0).ProcessImage(cmd.Context(), decoded.Image, strat, opts.channels, nopts)
	if err != nil {
		return err
	}

	for _, issue := range res.Issues {
		entry := logger.WithField("type", issue.Type)
		if issue.Severity == "warning" {
			entry.Warn(issue.Message)
		} else {
			entry.Info(issue.Message)
		}
	}

	ch, h, w := res.Stack.Shape()
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d channel(s), %dx%d, %s, label %q\n",
		path, ch, w, h, res.Strategy, res.Stack.Label)
	writeStats(cmd.OutOrStdout(), res.Stats)

	if opts.out == "" {
		return nil
	}

	ropts := service.RenderOptions{
		Layout:     opts.layout,
		NCols:      c.v.GetInt("ncols"),
		Happy:      opts.happy,
		CellWidth:  opts.cellSize,
		CellHeight: opts.cellSize,
		Gap:        2,
	}
	if opts.seed != 0 {
		ropts.Seed = &opts.seed
	}
	img, err := service.RenderStack(res.Stack, ropts)
	if err != nil {
		return err
	}
	if err := imageio.Save(opts.out, img); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"file":   opts.out,
		"layout": opts.layout,
		"issues": len(res.Issues),
	}).Info("Rendering written")
	return nil
}

func writeStats(w io.Writer, stats []processor.ChannelStats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHANNEL\tMIN\tMAX\tMEAN\tSTD\tLO\tHI\tFLAT")
	for _, s := range stats {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			s.Channel, num(s.Min), num(s.Max), num(s.Mean), num(s.StdDev), num(s.Lo), num(s.Hi), s.Degenerate)
	}
	tw.Flush()
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.4g", v)
}
