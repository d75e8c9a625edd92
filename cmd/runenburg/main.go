package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Yulia-Kablukova/runenburg/bot"
	corecmd "github.com/Yulia-Kablukova/runenburg/core/cmd"
)

func main() {
	// Local development keeps secrets in .env; in containers the variables
	// come from the environment and the file is simply absent.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bot.Bootstrap(cfg.(*bot.Config))
		},
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
