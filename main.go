package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"whop-automation/automation"
	"whop-automation/config"
	"whop-automation/generator"
	"whop-automation/marketplace"
	"whop-automation/services"
	"whop-automation/storage"
	"whop-automation/store"
	"whop-automation/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Whop Product Automation System starting ===")

	if err := cfg.ValidateCredentials(); err != nil {
		logger.Error("Configuration error: %v", err)
		logger.Error("Set the variable in .env or the environment and restart")
		os.Exit(1)
	}

	productStore, err := store.New(cfg.ProductsDir, logger)
	if err != nil {
		logger.Error("Failed to open product store: %v", err)
		os.Exit(1)
	}

	market, err := marketplace.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize marketplace client: %v", err)
		os.Exit(1)
	}

	gen := generator.New(cfg, productStore, logger)
	renderer := services.NewRenderer(cfg.OutputDir)

	sinks := []services.ResultSink{}
	csvWriter, err := storage.NewCSVWriter(cfg.CSVExportPath)
	if err != nil {
		logger.Error("Failed to create CSV result writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()
	sinks = append(sinks, csvWriter)

	if cfg.HistoryDSN != "" {
		history, err := storage.NewHistoryWriter(cfg.HistoryDSN, logger)
		if err != nil {
			logger.Error("Failed to connect to history database: %v", err)
			os.Exit(1)
		}
		defer history.Close()
		sinks = append(sinks, history)
	}

	uploader := services.NewBatchUploader(productStore, market, renderer,
		utils.NewPacer(cfg.UploadDelayMs), logger, sinks...)
	optimizer := services.NewPriceOptimizer(market, utils.NewPacer(cfg.OptimizeDelayMs), logger)
	reporter := services.NewReporter(market, productStore, cfg.ReportsDir, logger)

	launcher := automation.NewLauncher(cfg, logger, gen, uploader, optimizer, reporter, market)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println()
	fmt.Println("  Whop Product Automation")
	fmt.Println("  1. Run automation once")
	fmt.Println("  2. Run continuous automation")
	fmt.Println("  3. Set up webhooks")
	fmt.Println("  4. Check performance summary")
	fmt.Print("\n  Choose option (1-4): ")

	choice := readChoice(os.Stdin)

	switch choice {
	case "1":
		launcher.RunDailyCycle(ctx)
	case "2":
		if err := launcher.RunContinuous(ctx); err != nil {
			logger.Error("Continuous automation failed: %v", err)
			os.Exit(1)
		}
	case "3":
		launcher.SetupWebhooks()
	case "4":
		summary, err := launcher.PerformanceSummary()
		if err != nil {
			logger.Error("Failed to build performance summary: %v", err)
			os.Exit(1)
		}
		fmt.Printf("\n  Products tracked:   %d\n", summary.TotalProducts)
		fmt.Printf("  Estimated sales:    %.0f\n", summary.EstimatedSales)
		fmt.Printf("  Estimated revenue:  $%.2f\n\n", summary.EstimatedRevenue)
	default:
		logger.Error("Invalid option %q, expected 1-4", choice)
		os.Exit(1)
	}
}

func readChoice(in *os.File) string {
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
