package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"tradeflow/params"
	"tradeflow/pkg/sim"
	"tradeflow/pkg/util"
)

func main() {
	configPath := flag.String("config", "", "yaml config file (env overrides still apply)")
	flag.Parse()

	// Load config: yaml file if given, then .env / environment on top.
	cfg := params.LoadFromEnv("")
	if *configPath != "" {
		fileCfg, err := params.LoadFromFile(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = fileCfg
	}

	var logger *zap.Logger
	var err error
	if cfg.Log.File != "" {
		logger, err = util.NewLoggerWithFile(cfg.Log.File)
	} else {
		logger, err = util.NewLogger()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	pipeline := sim.NewPipeline(cfg, util.NewSystemClock(), sugar)
	pipeline.Run(cfg.Feed.Orders)
}
