package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"postviewer/app/config"
	"postviewer/app/logging"
	"postviewer/service"

	"go.uber.org/zap"
)

const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args and exits with the command's status.
func RealMain() {
	args := os.Args[1:]

	var configPath string
	if len(args) >= 2 && args[0] == "--config" {
		configPath = args[1]
		args = args[2:]
	}

	if len(args) < 1 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(args[0])
	switch cmd {
	case "help":
		printHelp()
		exit(0)
	case "version":
		fmt.Printf("postviewer version %s\n", CliVersion)
		exit(0)
	case "serve", "show", "backend":
		exit(runWithConfig(configPath, cmd, args[1:]))
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: postviewer [--config <file>] <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve                          Run the post viewer web frontend.
  show <id> [--comments]         Print a post (and its comments) to the terminal.
  backend <command>              Run or manage the local blog API (backend help for details).
`
	fmt.Println(helpText)
}

func runWithConfig(configPath, cmd string, args []string) int {
	if cmd == "show" && (len(args) < 1 || strings.HasPrefix(args[0], "-")) {
		fmt.Println("Error: post id required for show command")
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		if err := service.RunViewerServer(ctx, cfg, logger); err != nil {
			logger.Error("viewer server stopped", zap.Error(err))
			return 1
		}
		return 0
	case "show":
		withComments := len(args) > 1 && args[1] == "--comments"
		if err := service.Show(ctx, cfg, logger, args[0], withComments, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			return 1
		}
		return 0
	default:
		return service.HandleBackendCommand(ctx, cfg, logger, args)
	}
}
