package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/diillson/carbon-footprint-go/internal/adapter/driving/web"
	"github.com/diillson/carbon-footprint-go/internal/application/usecase"
	"github.com/diillson/carbon-footprint-go/internal/domain/factor"
	"github.com/diillson/carbon-footprint-go/internal/domain/repository"
	"github.com/diillson/carbon-footprint-go/internal/shared/types"
	"github.com/diillson/carbon-footprint-go/pkg/version"
	"github.com/spf13/cobra"
)

// Dependencies são os adaptadores injetados pelo main.
type Dependencies struct {
	ExportRepo repository.ExportRepository
	ConfigRepo repository.ConfigRepository
	CloudRepo  repository.CloudSpendRepository
	Console    types.ConsoleInterface
}

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd     *cobra.Command
	deps        Dependencies
	config      *types.Config
	version     string
	showBanner  bool
	checkUpdate bool
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version:     versionStr,
		config:      &types.Config{},
		showBanner:  true,
		checkUpdate: true,
	}

	rootCmd := &cobra.Command{
		Use:               "carbon-footprint",
		Short:             "Organizational greenhouse-gas footprint calculator",
		Version:           version.FormatVersion(),
		SilenceUsage:      true,
		PersistentPreRunE: app.loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.banner()
			return cmd.Help()
		},
	}
	rootCmd.SetVersionTemplate(`{{printf "Carbon Footprint Calculator version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log severity (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(
		app.newCalculateCmd(),
		app.newExportCmd(),
		app.newServeCmd(),
		app.newFactorsCmd(),
	)

	app.rootCmd = rootCmd
	return app
}

// SetDependencies define os adaptadores usados pelos comandos.
func (app *CLIApp) SetDependencies(deps Dependencies) {
	app.deps = deps
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

func (app *CLIApp) newCalculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate the footprint of an activity file and optionally export it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.banner()
			app.checkLatestVersion(cmd.Context())

			cliArgs, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			return app.useCase().RunCalculate(cmd.Context(), cliArgs)
		},
	}
	cmd.Flags().StringP("input", "i", "", "Activity data file (TOML, YAML or JSON)")
	cmd.Flags().StringP("org", "o", "", "Organization name shown on the reports")
	cmd.Flags().StringSliceP("report-type", "y", nil, "Report types to export: csv, pdf, json")
	cmd.Flags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	cmd.Flags().Bool("aws-cloud-spend", false, "Import cloud spend from AWS Cost Explorer")
	cmd.Flags().StringP("aws-profile", "p", "", "AWS profile used for the cloud spend import")
	cmd.Flags().IntP("time-range", "t", 0, "Cloud spend period in days (default: current month); the imported spend replaces the annual cloud_spend_usd")
	cmd.Flags().StringSliceP("tag", "g", nil, "Cost allocation tag filter for the cloud spend import, e.g. --tag Team=Platform")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (app *CLIApp) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render exports from a saved JSON report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliArgs, err := app.parseArgs(cmd)
			if err != nil {
				return err
			}
			return app.useCase().RunExport(cmd.Context(), cliArgs)
		},
	}
	cmd.Flags().StringP("report", "r", "", "JSON report produced with --report-type json")
	cmd.Flags().StringP("org", "o", "", "Override the organization name")
	cmd.Flags().StringSliceP("report-type", "y", []string{usecase.FormatCSV}, "Report types to export: csv, pdf, json")
	cmd.Flags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	_ = cmd.MarkFlagRequired("report")
	return cmd
}

func (app *CLIApp) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web calculator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			listen, _ := cmd.Flags().GetString("listen")
			if !cmd.Flags().Changed("listen") && app.config.Listen != "" {
				listen = app.config.Listen
			}

			srv, err := web.NewServer(app.useCase())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, listen)
		},
	}
	cmd.Flags().StringP("listen", "l", web.DefaultListen, "Address the web server listens on")
	return cmd
}

func (app *CLIApp) newFactorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "factors",
		Short: "Print the emission factors in use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.useCase().RunFactors()
			return nil
		},
	}
}

// loadConfig carrega o arquivo de configuração e inicializa o log.
func (app *CLIApp) loadConfig(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config-file")
	if configFile != "" {
		cfg, err := app.deps.ConfigRepo.LoadConfigFile(configFile)
		if err != nil {
			return err
		}
		app.config = cfg
	}

	logLevel, _ := cmd.Flags().GetString("log-level")
	if !cmd.Flags().Changed("log-level") && app.config.LogLevel != "" {
		logLevel = app.config.LogLevel
	}
	logFormat, _ := cmd.Flags().GetString("log-format")
	if !cmd.Flags().Changed("log-format") && app.config.LogFormat != "" {
		logFormat = app.config.LogFormat
	}
	initLogging(os.Stderr, logLevel, logFormat)

	if configFile != "" {
		slog.Debug("configuration loaded", "file", configFile)
	}
	return nil
}

// parseArgs parses command-line arguments into a CLIArgs struct. Flags left
// unset fall back to the configuration file.
func (app *CLIApp) parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	getString := func(name string) string {
		if flags.Lookup(name) == nil {
			return ""
		}
		v, _ := flags.GetString(name)
		return v
	}
	getSlice := func(name string) []string {
		if flags.Lookup(name) == nil {
			return nil
		}
		v, _ := flags.GetStringSlice(name)
		return v
	}

	args := &types.CLIArgs{
		ConfigFile:       getString("config-file"),
		InputFile:        getString("input"),
		ReportFile:       getString("report"),
		OrganizationName: getString("org"),
		ReportType:       getSlice("report-type"),
		Dir:              getString("dir"),
		AWSProfile:       getString("aws-profile"),
		Tag:              getSlice("tag"),
	}
	if flags.Lookup("aws-cloud-spend") != nil {
		args.AWSCloudSpend, _ = flags.GetBool("aws-cloud-spend")
	}
	if flags.Lookup("time-range") != nil {
		args.TimeRange, _ = flags.GetInt("time-range")
	}

	mergeConfig(args, app.config, func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	})

	if args.TimeRange < 0 {
		return nil, fmt.Errorf("time range must not be negative: %d", args.TimeRange)
	}

	// Diretório padrão é o de trabalho atual
	if args.Dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		args.Dir = cwd
	} else {
		absDir, err := filepath.Abs(args.Dir)
		if err != nil {
			return nil, err
		}
		args.Dir = absDir
	}

	return args, nil
}

// mergeConfig preenche os argumentos não informados na linha de comando com
// os valores do arquivo de configuração.
func mergeConfig(args *types.CLIArgs, cfg *types.Config, changed func(string) bool) {
	if cfg == nil {
		return
	}
	if !changed("org") && cfg.OrganizationName != "" {
		args.OrganizationName = cfg.OrganizationName
	}
	if !changed("report-type") && len(cfg.ReportType) > 0 {
		args.ReportType = cfg.ReportType
	}
	if !changed("dir") && cfg.Dir != "" {
		args.Dir = cfg.Dir
	}
}

// buildTable monta a tabela de fatores aplicando os overrides do config.
func buildTable(cfg *types.Config) *factor.Table {
	var opts []factor.Option
	if cfg != nil {
		if cfg.GridFactor > 0 {
			opts = append(opts, factor.WithGridFactor(cfg.GridFactor))
		}
		for key, v := range cfg.Factors {
			opts = append(opts, factor.WithFactor(key, v))
		}
		for name, gwp := range cfg.Refrigerants {
			opts = append(opts, factor.WithRefrigerantGWP(name, gwp))
		}
	}
	return factor.NewTable(opts...)
}

func (app *CLIApp) useCase() *usecase.FootprintUseCase {
	return usecase.NewFootprintUseCase(
		buildTable(app.config),
		app.deps.ExportRepo,
		app.deps.ConfigRepo,
		app.deps.CloudRepo,
		app.deps.Console,
		usecase.WithDefaultWorkdays(app.config.Workdays),
	)
}

func (app *CLIApp) banner() {
	if app.showBanner {
		displayWelcomeBanner()
	}
}

func (app *CLIApp) checkLatestVersion(ctx context.Context) {
	if !app.checkUpdate {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go version.CheckLatestVersion(ctx, app.version)
}
