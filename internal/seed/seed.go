// Package seed loads restaurants and their menus from a data file into the
// database. Restaurants are matched by name and address, menu items by name,
// so a file can be applied repeatedly.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"food-server/internal/domain"
	"food-server/internal/repository"
)

type MenuItem struct {
	Name        string `mapstructure:"name"`
	Price       int64  `mapstructure:"price"`
	Description string `mapstructure:"description"`
}

type Restaurant struct {
	Name        string     `mapstructure:"name"`
	Category    string     `mapstructure:"category"`
	Address     string     `mapstructure:"address"`
	Description string     `mapstructure:"description"`
	Menu        []MenuItem `mapstructure:"menu"`
}

type File struct {
	Restaurants []Restaurant `mapstructure:"restaurants"`
}

// Result counts what Apply wrote.
type Result struct {
	Restaurants int
	MenuItems   int
}

// Load reads a yaml, json or toml seed file; the format follows the extension.
func Load(path string) (File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return File{}, fmt.Errorf("read seed file: %w", err)
	}

	var file File
	if err := v.Unmarshal(&file); err != nil {
		return File{}, fmt.Errorf("decode seed file: %w", err)
	}
	if err := file.validate(); err != nil {
		return File{}, err
	}
	return file, nil
}

func (f File) validate() error {
	for i, r := range f.Restaurants {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("restaurant #%d: name is required", i+1)
		}
		if strings.TrimSpace(r.Category) == "" {
			return fmt.Errorf("restaurant %q: category is required", r.Name)
		}
		seen := make(map[string]struct{}, len(r.Menu))
		for _, item := range r.Menu {
			name := strings.TrimSpace(item.Name)
			if name == "" {
				return fmt.Errorf("restaurant %q: menu item without name", r.Name)
			}
			if item.Price < 0 {
				return fmt.Errorf("restaurant %q: menu item %q has negative price", r.Name, name)
			}
			if _, dup := seen[name]; dup {
				return fmt.Errorf("restaurant %q: duplicate menu item %q", r.Name, name)
			}
			seen[name] = struct{}{}
		}
	}
	return nil
}

// Apply writes every restaurant and replaces its menu with the file's.
func Apply(ctx context.Context, restaurants repository.RestaurantRepository, menus repository.MenuRepository, file File) (Result, error) {
	var res Result
	for _, r := range file.Restaurants {
		restaurant := &domain.Restaurant{
			Name:        strings.TrimSpace(r.Name),
			Category:    strings.TrimSpace(r.Category),
			Address:     strings.TrimSpace(r.Address),
			Description: strings.TrimSpace(r.Description),
		}
		if _, err := restaurants.Create(ctx, restaurant); err != nil {
			return res, fmt.Errorf("seed restaurant %q: %w", restaurant.Name, err)
		}

		items := make([]domain.MenuItem, len(r.Menu))
		for i, item := range r.Menu {
			items[i] = domain.MenuItem{
				Name:        strings.TrimSpace(item.Name),
				Price:       item.Price,
				Description: strings.TrimSpace(item.Description),
			}
		}
		if err := menus.ReplaceForRestaurant(ctx, restaurant.ID, items); err != nil {
			return res, fmt.Errorf("seed menu of %q: %w", restaurant.Name, err)
		}

		res.Restaurants++
		res.MenuItems += len(items)
	}
	return res, nil
}
