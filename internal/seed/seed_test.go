package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"food-server/internal/domain"
	"food-server/internal/repository/sqlite"
	"food-server/internal/seed"
)

const sample = `
restaurants:
  - name: Kimchi House
    category: korean
    address: Seoul Jongno
    menu:
      - name: kimchi stew
        price: 9000
      - name: bulgogi
        price: 12000
  - name: Noodle Town
    category: chinese
    description: hand pulled noodles
    menu:
      - name: jajangmyeon
        price: 8000
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestLoadAndApply(t *testing.T) {
	ctx := context.Background()
	file, err := seed.Load(writeFile(t, "seed.yaml", sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(file.Restaurants) != 2 || len(file.Restaurants[0].Menu) != 2 {
		t.Fatalf("unexpected file: %+v", file)
	}

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "food.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	store := sqlite.NewStore(db)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	// applying twice must not duplicate anything
	for i := 0; i < 2; i++ {
		res, err := seed.Apply(ctx, store.Restaurants, store.Menus, file)
		if err != nil {
			t.Fatalf("apply #%d: %v", i+1, err)
		}
		if res.Restaurants != 2 || res.MenuItems != 3 {
			t.Fatalf("apply #%d: unexpected result %+v", i+1, res)
		}
	}

	total, err := store.Restaurants.Count(ctx, domain.RestaurantFilter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 restaurants, got %d", total)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing name":     "restaurants:\n  - category: korean\n",
		"missing category": "restaurants:\n  - name: x\n",
		"duplicate menu":   "restaurants:\n  - name: x\n    category: y\n    menu:\n      - name: a\n      - name: a\n",
		"negative price":   "restaurants:\n  - name: x\n    category: y\n    menu:\n      - name: a\n        price: -1\n",
	}
	for name, body := range tests {
		if _, err := seed.Load(writeFile(t, "seed.yaml", body)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	_, err := seed.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read seed file") {
		t.Errorf("missing file: got %v", err)
	}
}
