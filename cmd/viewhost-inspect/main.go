// Command viewhost-inspect drives a headless instance manager from the
// terminal: mount and unmount viewports, send messages, and watch records
// move through their lifecycle.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gogpu/viewhost"
	"github.com/gogpu/viewhost/instance"
)

func main() {
	var (
		identities = flag.String("identities", "cube-a,cube-b", "comma-separated engine identities")
		capacity   = flag.Int("capacity", 16, "message queue capacity per identity")
		grace      = flag.Int("grace", 30, "grace window in frames")
		fps        = flag.Int("fps", 30, "frames per second")
		logFile    = flag.String("log", "", "write debug logs to this file")
	)
	flag.Parse()

	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer f.Close()
		viewhost.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	mgr := instance.NewManager(
		instance.WithQueueCapacity(*capacity),
		instance.WithDefaultGrace(instance.Grace{Frames: *grace}),
		instance.WithFrameDedupe(),
	)
	m := newModel(mgr, strings.Split(*identities, ","), *fps)

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("inspect: %v", err)
	}
}
