package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"food-server/internal/repository"
)

// Open opens (or creates) a sqlite database at the given path and ensures directories exist.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// one writer, serialised by database/sql
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}

// Store bundles the repositories sharing one database handle.
type Store struct {
	Restaurants repository.RestaurantRepository
	Menus       repository.MenuRepository
	Reviews     repository.ReviewRepository
	Users       repository.UserRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		Restaurants: NewRestaurantRepository(db),
		Menus:       NewMenuRepository(db),
		Reviews:     NewReviewRepository(db),
		Users:       NewUserRepository(db),
	}
}

// Init creates all tables. Referenced tables come first.
func (s *Store) Init(ctx context.Context) error {
	steps := []struct {
		name string
		init func(context.Context) error
	}{
		{"restaurant", s.Restaurants.Init},
		{"menu", s.Menus.Init},
		{"user", s.Users.Init},
		{"review", s.Reviews.Init},
	}
	for _, step := range steps {
		if err := step.init(ctx); err != nil {
			return fmt.Errorf("init %s repository: %w", step.name, err)
		}
	}
	return nil
}
