// Package main implements the quizforge command: it turns one large source
// text into a validated set of learning artifacts (topic map, question
// corpus, taxonomy, study summary) by orchestrating asynchronous generation
// batches.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/pipeline"
	"github.com/quizforge/quizforge/internal/platform/logger"
	"github.com/quizforge/quizforge/internal/platform/openai"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "quizforge: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := flag.String("data", "data", "artifact directory")
	source := flag.String("source", "", "source text path (default <data>/source.txt)")
	noClean := flag.Bool("no-clean", false, "skip cleaning the data directory before the run")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Log)

	sourcePath := *source
	if sourcePath == "" {
		sourcePath = filepath.Join(*dataDir, "source.txt")
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return fmt.Errorf("missing source file %s: %w", sourcePath, err)
	}

	if *noClean {
		log.Info("skipping data directory cleanup")
	} else if err := pipeline.CleanDataDir(log, *dataDir); err != nil {
		return fmt.Errorf("failed to clean data directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := openai.NewClient(cfg.OpenAI, log)
	p := pipeline.New(cfg, log, svc, *dataDir)

	if err := p.Run(ctx, sourcePath); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("run interrupted")
		}
		return err
	}

	log.Info("pipeline finished", "data_dir", *dataDir)
	return nil
}
