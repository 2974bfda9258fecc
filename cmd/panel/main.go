// Command panel runs the companion panel against a relay daemon (or,
// with -direct, against the platform straight from this process). The
// terminal front end here is deliberately thin: all behavior lives in
// the panel controller.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/config"
	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/logging"
	"github.com/GriffinCanCode/InfaPanel/internal/panel"
	"github.com/GriffinCanCode/InfaPanel/internal/platform"
	"github.com/GriffinCanCode/InfaPanel/internal/relay"
	"github.com/GriffinCanCode/InfaPanel/internal/relay/client"
	"github.com/GriffinCanCode/InfaPanel/internal/session"
	"github.com/GriffinCanCode/InfaPanel/internal/storage"
)

func main() {
	configFile := flag.String("config", "", "Optional YAML config file")
	direct := flag.Bool("direct", false, "Call the platform directly instead of through the relay daemon")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.LoadFile(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		cfg = config.LoadOrDefault()
	}

	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	var kv storage.KV
	sqlite, err := storage.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		// Degraded: the session will not survive a restart.
		logger.Warn("Durable storage unavailable, running in-memory")
		kv = storage.NewMemory()
	} else {
		defer sqlite.Close()
		kv = sqlite
	}
	store := session.NewStore(kv, logger)

	settings, err := storage.LoadSettings(kv)
	if err != nil {
		logger.Warn("Failed to load panel settings", zap.Error(err))
	}

	// An explicit config file wins; otherwise the persisted service URL
	// decides which daemon to talk to.
	relayURL := cfg.Relay.URL
	if *configFile == "" && settings.ServiceURL != "" {
		relayURL = "ws" + strings.TrimPrefix(settings.ServiceURL, "http") + "/relay"
	}

	ctx := context.Background()

	var port relay.Port
	if *direct {
		port = relay.NewExecutor(client.New(), logger)
	} else {
		relayClient, err := relay.Dial(ctx, relayURL, logger)
		if err != nil {
			log.Fatalf("Failed to reach relay daemon at %s: %v", relayURL, err)
		}
		defer relayClient.Close()
		port = relayClient
	}
	port = relay.WithSession(port, store.TokenSource())

	auth := session.NewAuthenticator(port, store, cfg.Platform.LoginURL, logger)
	validator := session.NewValidator(port, store, cfg.Platform.SessionURL, logger)
	api := platform.NewClient(port, cfg.Platform.PodURL, store.TokenSource(), logger)

	view := newTerminalView()
	controller := panel.NewController(store, auth, validator, api, view, view, logger)

	runLoop(ctx, controller, view)
}

// runLoop is a minimal line-oriented front end over the controller.
func runLoop(ctx context.Context, c *panel.Controller, view *terminalView) {
	scanner := bufio.NewScanner(os.Stdin)

	c.Activate(ctx)
	fmt.Println(`Commands: login, clone, run, task <n>, folder <n>, name <text>, flow <n>, go, logout, quit`)

	for {
		fmt.Printf("[%s]> ", c.Section())
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, arg := fields[0], strings.Join(fields[1:], " ")

		switch cmd {
		case "login":
			username, password, err := promptCredentials()
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			c.Login(ctx, username, password)
		case "clone":
			c.OpenClone(ctx)
		case "run":
			c.OpenRun(ctx)
		case "task":
			c.SelectTask(view.taskAt(parseIndex(arg)))
		case "folder":
			c.SelectFolder(view.folderAt(parseIndex(arg)))
		case "name":
			c.SetCloneName(arg)
		case "flow":
			c.SelectFlow(view.flowAt(parseIndex(arg)))
		case "go":
			switch c.Section() {
			case panel.SectionClone:
				c.CloneTask(ctx)
			case panel.SectionRun:
				c.RunFlow(ctx)
			default:
				fmt.Println("nothing to do here")
			}
		case "logout":
			c.Logout()
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command:", cmd)
		}
	}
}

func promptCredentials() (string, string, error) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	fmt.Print("password: ")
	passBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(username), string(passBytes), nil
}

func parseIndex(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return -1
	}
	return n
}
