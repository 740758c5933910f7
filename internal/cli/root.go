// Package cli implements the spatialplot command line.
package cli

import (
	"fmt"
	"io"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anime-shed/spatialplot-go/internal/logger"
	"github.com/anime-shed/spatialplot-go/pkg/normalize"
)

const (
	configName = ".spatialplot"
	envPrefix  = "SPLOT"
)

// CLI carries the configuration shared by every command.
type CLI struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	stderr  io.Writer
}

// New returns a CLI that logs to stderr.
func New(stderr io.Writer) *CLI {
	v := viper.New()
	v.SetDefault("pmin", normalize.DefaultPMin)
	v.SetDefault("pmax", normalize.DefaultPMax)
	v.SetDefault("eps", normalize.DefaultEps)
	v.SetDefault("clip", false)
	v.SetDefault("label", normalize.DefaultLabel)
	v.SetDefault("mode", "auto")
	v.SetDefault("ncols", 4)
	return &CLI{v: v, stderr: stderr}
}

// RootCommand assembles the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "spatialplot",
		Short: "Percentile normalization and plotting helpers for multi-channel images",
		Long: `spatialplot rescales each channel of an image so that its low percentile maps
to 0 and its high percentile to 1, and renders the result as a montage or overlay.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.UseText(c.stderr)
			if c.verbose {
				logger.Logger.SetLevel(logrus.DebugLevel)
			}
			return c.initConfig()
		},
	}

	root.PersistentFlags().StringVarP(&c.cfgFile, "config", "c", "", "config file (default is $HOME/.spatialplot.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.newNormalizeCmd())
	root.AddCommand(c.newPaletteCmd())
	root.AddCommand(c.newGridCmd())
	return root
}

func (c *CLI) initConfig() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		c.v.AddConfigPath(home)
		c.v.SetConfigName(configName)
	}

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && c.cfgFile == "" {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	logger.WithField("file", c.v.ConfigFileUsed()).Debug("Using config file")
	return nil
}

// options reads normalization parameters from flags, env and config.
func (c *CLI) options() normalize.Options {
	return normalize.Options{
		PMin:  c.v.GetFloat64("pmin"),
		PMax:  c.v.GetFloat64("pmax"),
		Eps:   c.v.GetFloat64("eps"),
		Clip:  c.v.GetBool("clip"),
		Label: c.v.GetString("label"),
	}
}

// bind ties the named flags of cmd to viper keys of the same name. It runs
// from PreRunE so that commands sharing a flag name do not steal each
// other's binding.
func (c *CLI) bind(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		if err := c.v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}
