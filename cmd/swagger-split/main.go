package main

import (
	"os"
	"runtime/debug"

	"github.com/brizzai/swagger-split/internal/config"
	"github.com/brizzai/swagger-split/internal/logger"
	"github.com/brizzai/swagger-split/internal/parser"
	"github.com/brizzai/swagger-split/internal/partition"
	"github.com/brizzai/swagger-split/internal/render"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	Execute()
}

var cfg *config.Config

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "swagger-split",
	Short: "Split a Swagger document into public and admin documents",
	Long: `swagger-split reads <dir>/swagger.json, sends every path containing the tenant
marker to <dir>/public/swagger.json and every other path to <dir>/admin/swagger.json,
rewriting path keys on the way. It can also render a Handlebars template against a
JSON document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}

		loaded, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded
		return logger.InitLogger(&cfg.Logging)
	}

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")

	rootCmd.AddCommand(newSplitCmd(), newRenderCmd())
}

// runApp builds the dependency graph, fills targets from it and then calls run.
// Errors returned by run are passed back untouched.
func runApp(run func() error, targets ...interface{}) error {
	app := fx.New(
		fx.Supply(cfg),
		logger.Module,
		parser.Module,
		partition.Module,
		render.Module,
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return err
	}
	return run()
}
