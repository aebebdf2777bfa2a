package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"
	"shareit/internal/service"
)

// Fixtures lists users and the items each one lends out.
type Fixtures struct {
	Users []struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
		Items []struct {
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
			Available   bool   `yaml:"available"`
		} `yaml:"items"`
	} `yaml:"users"`
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
		fixturesPath = flag.String("fixtures", "configs/seed.yaml", "path to seed fixtures")
		configPath   = flag.String("config", "configs/server.yaml", "path to server config")
	)
	flag.Parse()

	data, err := os.ReadFile(*fixturesPath)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fx Fixtures
	if err = yaml.Unmarshal(data, &fx); err != nil {
		return fmt.Errorf("parse fixtures: %w", err)
	}
	if len(fx.Users) == 0 {
		return fmt.Errorf("no users in fixtures")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, cfg.Database, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	users := service.NewUserService(db, &logger)
	items := service.NewItemService(db, &logger)

	existing, err := users.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	byEmail := make(map[string]int64, len(existing))
	for _, u := range existing {
		byEmail[u.Email] = u.ID
	}

	createdUsers, createdItems := 0, 0
	for _, fu := range fx.Users {
		id, ok := byEmail[fu.Email]
		if !ok {
			u, err := users.CreateUser(ctx, &models.User{Name: fu.Name, Email: fu.Email})
			if err != nil && !errors.Is(err, domain.ErrConflict) {
				return fmt.Errorf("create user %s: %w", fu.Email, err)
			}
			if err != nil {
				continue
			}
			id = u.ID
			createdUsers++
		}
		for _, fi := range fu.Items {
			available := fi.Available
			_, err := items.AddItem(ctx, id, &models.ItemDraft{Name: fi.Name, Description: fi.Description, Available: &available})
			if err != nil {
				return fmt.Errorf("create item %s: %w", fi.Name, err)
			}
			createdItems++
		}
	}

	fmt.Printf("done: users=%d items=%d\n", createdUsers, createdItems)
	return nil
}
