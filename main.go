package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"todolist/commands"
	"todolist/config"
	"todolist/prompt"
	"todolist/storage"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level, _ := cfg.Level()
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "todo",
	})

	store, err := storage.NewJSONStore(cfg.DataFile, logger)
	if err != nil {
		logger.Fatal("cannot open data file", "err", err)
	}
	defer store.Close()

	// A file that cannot be read is treated as no prior tasks
	snap, err := store.Load()
	if err != nil {
		logger.Warn("starting with an empty list", "err", err)
		snap = storage.Snapshot{}
	}
	registry := storage.RegistryFromSnapshot(snap)
	logger.Debug("ready", "path", store.Path(), "tasks", registry.Len(), "next_id", registry.NextID())

	rl, err := prompt.NewReadline(cfg.Prompt, cfg.HistoryFile)
	if err != nil {
		logger.Fatal("cannot start prompt", "err", err)
	}
	defer rl.Close()

	fmt.Println("Welcome to PCodes-List! Type help for available commands.")

	dispatcher := commands.NewDispatcher(registry, store, logger)
	if err := prompt.Run(rl, dispatcher, rl.Stdout()); err != nil {
		logger.Error("prompt stopped", "err", err)
		os.Exit(1)
	}
}
