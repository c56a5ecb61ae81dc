package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	sentencerepo "github.com/espeakapp/espeak-backend/internal/data/repos/sentence"
	"github.com/espeakapp/espeak-backend/internal/db"
	types "github.com/espeakapp/espeak-backend/internal/domain"
	"github.com/espeakapp/espeak-backend/internal/pkg/logger"
)

type seedSentence struct {
	Chinese    string `yaml:"chinese"`
	English    string `yaml:"english"`
	Hint       string `yaml:"hint"`
	Difficulty int    `yaml:"difficulty"`
	Category   string `yaml:"category"`
}

type seedFile struct {
	Sentences []seedSentence `yaml:"sentences"`
}

func main() {
	var (
		path  = flag.String("file", "cmd/seed/sentences.yaml", "path to the sentence catalog file")
		force = flag.Bool("force", false, "seed even when the catalog is not empty")
	)
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dbService, err := db.NewService(log)
	if err != nil {
		log.Fatal("Failed to init database", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Automigrate failed", "error", err)
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("Failed to read seed file", "path", *path, "error", err)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		log.Fatal("Failed to parse seed file", "path", *path, "error", err)
	}
	if len(file.Sentences) == 0 {
		log.Fatal("Seed file contains no sentences", "path", *path)
	}

	ctx := context.Background()
	repo := sentencerepo.NewSentenceRepo(dbService.DB(), log)

	existing, err := repo.Count(ctx, nil)
	if err != nil {
		log.Fatal("Failed to count catalog", "error", err)
	}
	if existing > 0 && !*force {
		log.Info("Catalog already seeded, skipping (use -force to reseed)", "count", existing)
		return
	}

	rows := make([]*types.Sentence, 0, len(file.Sentences))
	for _, s := range file.Sentences {
		difficulty := s.Difficulty
		if difficulty <= 0 {
			difficulty = 1
		}
		category := s.Category
		if category == "" {
			category = "general"
		}
		rows = append(rows, &types.Sentence{
			ID:         uuid.New(),
			Chinese:    s.Chinese,
			English:    s.English,
			Hint:       s.Hint,
			Difficulty: difficulty,
			Category:   category,
		})
	}

	if _, err := repo.Create(ctx, nil, rows); err != nil {
		log.Fatal("Failed to insert sentences", "error", err)
	}
	log.Info("Catalog seeded", "inserted", len(rows))
}
