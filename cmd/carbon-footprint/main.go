package main

import (
	"fmt"
	"os"

	"github.com/diillson/carbon-footprint-go/internal/adapter/driven/aws"
	"github.com/diillson/carbon-footprint-go/internal/adapter/driven/config"
	"github.com/diillson/carbon-footprint-go/internal/adapter/driven/export"
	"github.com/diillson/carbon-footprint-go/internal/adapter/driving/cli"
	"github.com/diillson/carbon-footprint-go/pkg/console"
	"github.com/diillson/carbon-footprint-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// Inicializa os repositórios
	app.SetDependencies(cli.Dependencies{
		ExportRepo: export.NewExportRepository(),
		ConfigRepo: config.NewConfigRepository(),
		CloudRepo:  aws.NewAWSRepository(),
		Console:    console.NewConsole(),
	})

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
