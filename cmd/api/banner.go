package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"

	"folio/internal/config"
	"folio/internal/logger"
)

const bannerWidth = 56

func printBanner(cfg *config.Config) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", bannerWidth) + banner.ColorReset

	storage := cfg.DBDriver + "://" + cfg.DBHost + ":" + cfg.DBPort + "/" + cfg.DBName
	if cfg.DBDriver == "sqlite" {
		storage = "sqlite://" + cfg.SQLitePath
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	fmt.Fprintf(os.Stderr, "%s  FOLIO  portfolio tracker API%s\n\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "%s\n\n", hr)

	for _, kv := range [][2]string{
		{"Environment", cfg.Env},
		{"Listening", "http://localhost:" + cfg.Port},
		{"Storage", storage},
		{"Docs", "http://localhost:" + cfg.Port + "/swagger/index.html"},
	} {
		fmt.Fprintf(os.Stderr, "%s  %-14s %s%s\n", textColor, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	logger.Get().Infow("Application started", "environment", cfg.Env, "port", cfg.Port, "storage", storage)
}

func printShutdownBanner() {
	hr := banner.ColorCyan + strings.Repeat("═", bannerWidth) + banner.ColorReset
	fmt.Fprintf(os.Stderr, "\n%s\n%s  FOLIO  shutting down%s\n%s\n\n",
		hr, banner.ColorBold+banner.ColorWhite, banner.ColorReset, hr)
	logger.Get().Info("Application shutting down")
}
