package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/nudger/internal/buildinfo"
	"github.com/dmitrijs2005/nudger/internal/cli"
	"github.com/dmitrijs2005/nudger/internal/config"
	"github.com/dmitrijs2005/nudger/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
