package main

import (
	"fmt"

	"bookgen/internal/book"
	"bookgen/internal/content"
	"bookgen/internal/httpx"
	"bookgen/internal/seed"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var version = "0.1.0"

type app struct {
	configFile string
	logLevel   string
	profile    profile
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "bookgen",
		Short:         "Deterministic synthetic book catalog generator",
		Long:          `bookgen produces an unbounded, reproducible sequence of fake book records from a seed.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.configFile != "" {
				p, err := loadProfile(a.configFile)
				if err != nil {
					return err
				}
				a.profile = p
			}
			logger, err := httpx.NewLogger(a.logLevel, "console")
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML profile with default flag values")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newGenerateCmd(a),
		newFetchCmd(a),
		newExportCmd(a),
		newSeedCmd(),
		newLocalesCmd(),
	)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\nrun '%s --help' for usage", err, cmd.CommandPath())
	})
	return root
}

// configFlags are the generation parameters shared by generate, fetch and
// export.
type configFlags struct {
	seed       string
	locale     string
	avgLikes   float64
	avgReviews float64
}

func (f *configFlags) register(fs *pflag.FlagSet) {
	def := book.DefaultConfig()
	fs.StringVarP(&f.seed, "seed", "s", "", "root seed (random when empty)")
	fs.StringVarP(&f.locale, "locale", "l", string(def.Locale), "content locale")
	fs.Float64Var(&f.avgLikes, "likes", def.AvgLikes, "average likes per book")
	fs.Float64Var(&f.avgReviews, "reviews", def.AvgReviews, "average reviews per book")
}

// resolve layers defaults, the profile, and explicitly set flags, in that
// order. A missing seed is replaced with a random one.
func (f *configFlags) resolve(cmd *cobra.Command, p profile) (book.Config, error) {
	cfg, err := p.config()
	if err != nil {
		return book.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = f.seed
	}
	if flags.Changed("locale") {
		locale, err := content.ParseLocale(f.locale)
		if err != nil {
			return book.Config{}, err
		}
		cfg.Locale = locale
	}
	if flags.Changed("likes") {
		cfg.AvgLikes = f.avgLikes
	}
	if flags.Changed("reviews") {
		cfg.AvgReviews = f.avgReviews
	}

	if cfg.Seed == "" {
		cfg.Seed = seed.Random()
		pterm.Info.WithWriter(cmd.ErrOrStderr()).Printfln("using random seed %s", cfg.Seed)
	}
	return cfg, cfg.Validate()
}
