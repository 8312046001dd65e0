package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"holdersnap/pkg/chains"
	"holdersnap/pkg/config"
	"holdersnap/pkg/loader"
	"holdersnap/pkg/logging"
	"holdersnap/pkg/sequence"
	"holdersnap/pkg/server"
	"holdersnap/pkg/tui"

	"go.uber.org/zap"
)

// Version should be set during build
var Version = "dev"

func main() {
	testFlag := flag.Bool("t", false, "Test configuration and exit")
	testLongFlag := flag.Bool("test", false, "Test configuration and exit")
	jsonFlag := flag.Bool("json", false, "Output test results as JSON")
	configFlag := flag.String("config", "", "Path to configuration file")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	restoreFlag := flag.Bool("restore", false, "Restore the most recent configuration backup and exit")
	serverFlag := flag.Bool("server", false, "Run in headless server mode")
	portFlag := flag.Int("port", 8080, "Port for API server")
	contractFlag := flag.String("contract", "", "Export holders of this contract and exit")
	chainFlag := flag.String("chain", "", "Chain name or ID for -contract (default: configured chain)")
	tokenIDFlag := flag.String("token-id", "", "Only export holders of this token ID")
	outFlag := flag.String("o", "", "Write the CSV to this file instead of stdout")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("holdersnap version %s\n", Version)
		os.Exit(0)
	}

	cfgInput := *configFlag
	if cfgInput == "" && len(flag.Args()) > 0 {
		cfgInput = flag.Args()[0]
	}
	path, err := config.GetConfigPath(cfgInput)
	if err != nil {
		fmt.Printf("Error determining config path: %v\n", err)
		os.Exit(1)
	}

	if *restoreFlag {
		if err := config.RestoreLastBackup(path); err != nil {
			fmt.Printf("Failed to restore backup: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Restored last backup to %s\n", path)
		os.Exit(0)
	}

	testMode := *testFlag || *testLongFlag
	cfg, loadErr := config.LoadConfigFromFile(path)
	if loadErr != nil {
		if !testMode {
			fmt.Printf("Error loading config from %s: %v\n", path, loadErr)
			os.Exit(1)
		}
		cfg = config.Default()
	}

	// The TUI owns the terminal, so it always logs to a file.
	logFile := cfg.LogFile
	interactive := !testMode && !*serverFlag && *contractFlag == ""
	if interactive && logFile == "" {
		logFile = logging.DefaultFile()
	}
	logger, err := logging.New(cfg.LogLevel, logFile)
	if err != nil {
		fmt.Printf("Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := sequence.NewSource(cfg, logger)

	if testMode {
		report := runSelfTest(ctx, cfg, path, loadErr, src)
		if *jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(report)
		} else {
			printReport(os.Stdout, report)
		}
		if !report.Healthy {
			os.Exit(1)
		}
		return
	}

	coord := loader.NewCoordinator(src, cfg.MaxPages, logger)

	if *contractFlag != "" {
		chain, err := chains.Parse(*chainFlag)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if *chainFlag == "" {
			if c, ok := chains.ByID(cfg.SelectedChain); ok {
				chain = c
			}
		}
		if err := runExport(ctx, coord, chain, *contractFlag, *tokenIDFlag, *outFlag); err != nil {
			logger.Error("Export failed", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *serverFlag {
		srv := server.NewServer(ctx, coord, cfg.SnapshotTTL(), logger)
		fmt.Printf("Running in server mode on port %d...\n", *portFlag)
		if err := srv.Run(ctx, *portFlag); err != nil {
			logger.Error("Server error", zap.Error(err))
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := tui.Start(ctx, coord, cfg, path, Version, logger); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
