package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"staffcal/internal/config"
	"staffcal/internal/database"
	"staffcal/internal/models"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type SubjectsConfig struct {
	Subjects []models.Subject `yaml:"subjects"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		subjectsPath = flag.String("subjects", "configs/subjects.yaml", "path to subjects.yaml")
		dbPath       = flag.String("db", "./data/staffcal.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*subjectsPath)
	if err != nil {
		return fmt.Errorf("read subjects: %w", err)
	}
	var cfg SubjectsConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse subjects: %w", err)
	}
	if len(cfg.Subjects) == 0 {
		return fmt.Errorf("no subjects in yaml")
	}
	if err = config.ValidateSubjects(cfg.Subjects); err != nil {
		return fmt.Errorf("validate subjects: %w", err)
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err = db.SeedSubjects(ctx, cfg.Subjects); err != nil {
		return fmt.Errorf("seed subjects: %w", err)
	}

	fmt.Printf("done: seeded=%d\n", len(cfg.Subjects))
	return nil
}
