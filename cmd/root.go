package cmd

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/msalah0e/cardstudio/internal/config"
	"github.com/msalah0e/cardstudio/internal/interchange"
	"github.com/msalah0e/cardstudio/internal/logging"
	"github.com/msalah0e/cardstudio/internal/registry"
	"github.com/msalah0e/cardstudio/internal/session"
	"github.com/msalah0e/cardstudio/internal/ui"
)

var version = "0.3.0"

var (
	cfg         *config.Config
	log         *zap.Logger
	types       *registry.Registry
	cardTypesFS embed.FS

	configFile string
	logLevel   string
	logFormat  string
	noColor    bool
)

// SetCardTypesFS sets the embedded filesystem holding the built-in card
// type catalog.
func SetCardTypesFS(fs embed.FS) {
	cardTypesFS = fs
}

func loadTypes() *registry.Registry {
	if types != nil {
		return types
	}
	r, err := registry.LoadAll(cardTypesFS, "cardtypes")
	if err != nil {
		ui.Bad.Fprintf(os.Stderr, "cardstudio: failed to load card types: %v\n", err)
		return registry.New(nil)
	}
	types = r
	return types
}

var rootCmd = &cobra.Command{
	Use:   "cardstudio",
	Short: "cardstudio — headless card graph engine",
	Long: ui.Brand.Sprint(ui.Mark+" cardstudio") + " — inspect, validate and replay card graph workflows\n" +
		ui.Subtle.Sprint("Canvases of cards joined by typed socket connections"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			c, err := config.LoadFile(configFile)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				cfg = config.Default()
			case err != nil:
				return err
			default:
				cfg = c
			}
		} else {
			cfg = config.Load()
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if logFormat != "" {
			cfg.Log.Format = logFormat
		}
		if noColor || os.Getenv("NO_COLOR") != "" {
			cfg.UI.Color = false
		}
		ui.SetColor(cfg.UI.Color)

		l, err := logging.New(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.SetVersionTemplate("cardstudio {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.config/cardstudio/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		inspectCmd(),
		validateCmd(),
		replayCmd(),
		exportCmd(),
		configCmd(),
		catalogCmd(),
		modelsCmd(),
		journalCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		ui.Bad.Fprintf(os.Stderr, "cardstudio: %v\n", err)
	}
	return err
}

func newSession(opts ...session.Option) *session.Session {
	opts = append([]session.Option{session.WithLogger(log)}, opts...)
	return session.New(cfg, loadTypes(), opts...)
}

func importOptions() interchange.Options {
	return interchange.Options{
		Policy: cfgPolicy(),
		Logger: log.Named("import"),
	}
}

// openDocument loads a document file into a fresh session.
func openDocument(path string, opts ...session.Option) (*session.Session, interchange.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, interchange.Report{}, err
	}
	sess := newSession(opts...)
	rep, err := interchange.Import(sess.Store(), data, importOptions())
	if err != nil {
		return nil, rep, fmt.Errorf("%s: %w", path, err)
	}
	return sess, rep, nil
}
