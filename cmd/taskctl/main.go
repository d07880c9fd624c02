// Command taskctl is a terminal board for a running tasker server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rpggio/tasker/internal/client"
	"github.com/rpggio/tasker/internal/tui"
	"github.com/rpggio/tasker/internal/view"
)

var version = "dev"

func main() {
	server := flag.String("server", envOr("TASKER_SERVER_URL", "http://localhost:3001"), "tasker server base URL")
	projectID := flag.String("project", "", "project to show; empty shows every project")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("taskctl", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := client.New(*server, 10*time.Second, nil)
	if _, err := c.Health(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cannot reach %s: %v\n", *server, err)
		os.Exit(1)
	}

	store := view.NewStore(c, *projectID)
	p := tea.NewProgram(tui.New(ctx, store, c), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
