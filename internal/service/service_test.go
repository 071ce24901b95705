package service_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"food-server/internal/auth"
	"food-server/internal/domain"
	"food-server/internal/repository/sqlite"
	"food-server/internal/service"
	"food-server/internal/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fakePhotos struct {
	putErr  error
	puts    []storage.Object
	deleted []string
}

func (f *fakePhotos) Put(_ context.Context, obj storage.Object) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.puts = append(f.puts, obj)
	return "https://cdn.example.com/" + obj.Key, nil
}

func (f *fakePhotos) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fixture struct {
	store       *sqlite.Store
	tokens      *auth.TokenManager
	photos      *fakePhotos
	restaurants service.RestaurantService
	reviews     service.ReviewService
	users       service.UserService

	restaurant domain.Restaurant
	menu       []domain.MenuItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "food.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store := sqlite.NewStore(db)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init store: %v", err)
	}

	f := &fixture{
		store:  store,
		tokens: auth.NewTokenManager("test-secret", time.Hour),
		photos: &fakePhotos{},
	}
	f.restaurants = service.NewRestaurantService(store.Restaurants, store.Menus, store.Reviews)
	f.reviews = service.NewReviewService(store.Reviews, store.Users, f.tokens, f.photos, 1024)
	f.users = service.NewUserService(store.Users, f.tokens)

	f.restaurant = domain.Restaurant{Name: "Kimchi House", Category: "korean", Address: "Seoul"}
	if _, err := store.Restaurants.Create(ctx, &f.restaurant); err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	f.menu = []domain.MenuItem{{Name: "kimchi stew", Price: 9000}, {Name: "bulgogi", Price: 12000}}
	if err := store.Menus.ReplaceForRestaurant(ctx, f.restaurant.ID, f.menu); err != nil {
		t.Fatalf("replace menu: %v", err)
	}
	return f
}

func (f *fixture) signUpAndLogin(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := f.users.SignUp(ctx, email, "password123", ""); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	token, ok := f.users.Login(ctx, email, "password123").Token()
	if !ok || token == "" {
		t.Fatalf("login failed")
	}
	return token
}

func strPtr(s string) *string { return &s }

func TestListRestaurants_BlankFiltersAreIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	page := domain.Page{Number: 1, Size: 10}

	plain, err := f.restaurants.ListRestaurants(ctx, domain.RestaurantFilter{}, page)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	blank, err := f.restaurants.ListRestaurants(ctx, domain.RestaurantFilter{Category: strPtr("  "), Keyword: strPtr("")}, page)
	if err != nil {
		t.Fatalf("list blank: %v", err)
	}
	if plain.Total != 1 || blank.Total != plain.Total || len(blank.Items) != len(plain.Items) {
		t.Fatalf("blank filters changed result: %+v vs %+v", plain, blank)
	}
}

func TestListRestaurants_InvalidPage(t *testing.T) {
	f := newFixture(t)
	for _, page := range []domain.Page{{Number: 0, Size: 10}, {Number: 1, Size: 0}, {Number: 1, Size: service.MaxPageSize + 1}, {Number: math.MaxInt / 10, Size: 100}} {
		if _, err := f.restaurants.ListRestaurants(context.Background(), domain.RestaurantFilter{}, page); !errors.Is(err, service.ErrInvalidPage) {
			t.Errorf("page %+v: expected ErrInvalidPage, got %v", page, err)
		}
	}
}

func TestGetRestaurantDetail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.signUpAndLogin(t, "eater@example.com")

	rows, err := f.reviews.CreateReview(ctx, token, service.ReviewRequest{
		RestaurantID: f.restaurant.ID, MenuID: f.menu[1].ID, Rating: 5, Content: "great",
	})
	if err != nil || rows != 1 {
		t.Fatalf("create review: rows=%d err=%v", rows, err)
	}

	detail, err := f.restaurants.GetRestaurantDetail(ctx, f.restaurant.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Menu) != 2 || len(detail.Reviews) != 1 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.Restaurant.AverageRating != 5 || detail.Reviews[0].AuthorNickname != "eater" {
		t.Errorf("unexpected aggregates: %+v", detail)
	}

	if _, err := f.restaurants.GetRestaurantDetail(ctx, 999); !errors.Is(err, service.ErrRestaurantNotFound) {
		t.Fatalf("expected ErrRestaurantNotFound, got %v", err)
	}
}

func TestCreateReview_Classification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.signUpAndLogin(t, "eater@example.com")
	valid := service.ReviewRequest{RestaurantID: f.restaurant.ID, MenuID: f.menu[0].ID, Rating: 4, Content: "tasty"}

	if _, err := f.reviews.CreateReview(ctx, "Bearer nope", valid); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("bad token: expected ErrUnauthorized, got %v", err)
	}

	invalid := valid
	invalid.Rating = 6
	if _, err := f.reviews.CreateReview(ctx, token, invalid); !errors.Is(err, service.ErrInvalidReview) {
		t.Errorf("rating 6: expected ErrInvalidReview, got %v", err)
	}

	invalid = valid
	invalid.Content = "   "
	if _, err := f.reviews.CreateReview(ctx, token, invalid); !errors.Is(err, service.ErrInvalidReview) {
		t.Errorf("blank content: expected ErrInvalidReview, got %v", err)
	}

	missingMenu := valid
	missingMenu.MenuID = 999
	rows, err := f.reviews.CreateReview(ctx, token, missingMenu)
	if err != nil || rows != 0 {
		t.Errorf("unknown menu: expected 0 rows, got rows=%d err=%v", rows, err)
	}

	ghost, err := f.tokens.Issue(auth.Identity{UserID: 999, Email: "ghost@example.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := f.reviews.CreateReview(ctx, ghost, valid); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("unknown user: expected ErrUnauthorized, got %v", err)
	}
	if err := f.reviews.CreateReviewPhoto(ctx, ghost, valid, nil); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("unknown user photo review: expected ErrUnauthorized, got %v", err)
	}

	rows, err = f.reviews.CreateReview(ctx, "Bearer "+token, valid)
	if err != nil || rows != 1 {
		t.Errorf("valid review: rows=%d err=%v", rows, err)
	}
}

func TestCreateReviewPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.signUpAndLogin(t, "eater@example.com")
	req := service.ReviewRequest{RestaurantID: f.restaurant.ID, MenuID: f.menu[0].ID, Rating: 3, Content: "ok"}

	if err := f.reviews.CreateReviewPhoto(ctx, token, req, nil); err != nil {
		t.Fatalf("without photo: %v", err)
	}

	photo := &service.Photo{Filename: "a.png", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)}
	if err := f.reviews.CreateReviewPhoto(ctx, token, req, photo); err != nil {
		t.Fatalf("with photo: %v", err)
	}
	if len(f.photos.puts) != 1 {
		t.Fatalf("expected one upload, got %d", len(f.photos.puts))
	}
	put := f.photos.puts[0]
	if put.ContentType != "image/png" || !strings.HasSuffix(put.Key, ".png") {
		t.Errorf("unexpected object: %+v", put)
	}

	reviews, err := f.store.Reviews.ListByRestaurant(ctx, f.restaurant.ID, 10)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 2 || reviews[0].PhotoURL != "https://cdn.example.com/"+put.Key || reviews[1].PhotoURL != "" {
		t.Fatalf("unexpected stored reviews: %+v", reviews)
	}
}

func TestCreateReviewPhoto_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.signUpAndLogin(t, "eater@example.com")
	req := service.ReviewRequest{RestaurantID: f.restaurant.ID, MenuID: f.menu[0].ID, Rating: 3, Content: "ok"}

	text := []byte("definitely not an image")
	err := f.reviews.CreateReviewPhoto(ctx, token, req, &service.Photo{Size: int64(len(text)), Body: bytes.NewReader(text)})
	if !errors.Is(err, service.ErrInvalidReview) {
		t.Errorf("text upload: expected ErrInvalidReview, got %v", err)
	}

	big := append(append([]byte{}, pngHeader...), make([]byte, 2048)...)
	err = f.reviews.CreateReviewPhoto(ctx, token, req, &service.Photo{Size: int64(len(big)), Body: bytes.NewReader(big)})
	if !errors.Is(err, service.ErrInvalidReview) {
		t.Errorf("oversized upload: expected ErrInvalidReview, got %v", err)
	}

	f.photos.putErr = errors.New("bucket unavailable")
	err = f.reviews.CreateReviewPhoto(ctx, token, req, &service.Photo{Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)})
	if err == nil {
		t.Errorf("storage failure: expected error")
	}
	f.photos.putErr = nil

	wrongMenu := req
	wrongMenu.MenuID = 999
	err = f.reviews.CreateReviewPhoto(ctx, token, wrongMenu, &service.Photo{Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)})
	if !errors.Is(err, service.ErrReviewNotPersisted) {
		t.Fatalf("wrong menu: expected ErrReviewNotPersisted, got %v", err)
	}
	if len(f.photos.deleted) != 1 || f.photos.deleted[0] != f.photos.puts[len(f.photos.puts)-1].Key {
		t.Errorf("orphaned photo not removed: %+v", f.photos.deleted)
	}
}

func TestSignUpAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.SignUp(ctx, " New@Example.com ", "password123", "newbie")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if user.Email != "new@example.com" || user.PasswordHash != "" {
		t.Errorf("unexpected user: %+v", user)
	}

	if _, err := f.users.SignUp(ctx, "new@example.com", "password123", ""); !errors.Is(err, service.ErrEmailTaken) {
		t.Errorf("duplicate: expected ErrEmailTaken, got %v", err)
	}
	if _, err := f.users.SignUp(ctx, "not-an-email", "password123", ""); !errors.Is(err, service.ErrInvalidSignUp) {
		t.Errorf("bad email: expected ErrInvalidSignUp, got %v", err)
	}
	if _, err := f.users.SignUp(ctx, "short@example.com", "short", ""); !errors.Is(err, service.ErrInvalidSignUp) {
		t.Errorf("short password: expected ErrInvalidSignUp, got %v", err)
	}

	result := f.users.Login(ctx, "NEW@example.com", "password123")
	token, ok := result.Token()
	if !ok || token == "" {
		t.Fatalf("expected successful login, got failure %q", result.Failure())
	}
	id, err := f.tokens.Parse(token)
	if err != nil || id.UserID != user.ID {
		t.Fatalf("issued token does not decode to user: %+v %v", id, err)
	}

	if _, err := f.users.SignUp(ctx, "spaced@example.com", "  padded pass  ", ""); err != nil {
		t.Fatalf("sign up with padded password: %v", err)
	}
	if _, ok := f.users.Login(ctx, "spaced@example.com", "  padded pass  ").Token(); !ok {
		t.Errorf("padded password as given should log in")
	}
	if _, ok := f.users.Login(ctx, "spaced@example.com", "padded pass").Token(); ok {
		t.Errorf("trimmed password must not match the stored one")
	}
	if _, err := f.users.SignUp(ctx, "blank@example.com", "   ", ""); !errors.Is(err, service.ErrInvalidSignUp) {
		t.Errorf("blank password: expected ErrInvalidSignUp, got %v", err)
	}

	for _, tc := range []struct{ email, password string }{
		{"new@example.com", "wrong-password"},
		{"ghost@example.com", "password123"},
		{"", ""},
	} {
		result := f.users.Login(ctx, tc.email, tc.password)
		if token, ok := result.Token(); ok || token != "" {
			t.Errorf("%s: expected failure", tc.email)
		}
		if result.Failure() != service.LoginInvalidCredentials {
			t.Errorf("%s: failure = %q", tc.email, result.Failure())
		}
	}
}
