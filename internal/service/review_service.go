package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"food-server/internal/auth"
	"food-server/internal/domain"
	"food-server/internal/repository"
	"food-server/internal/storage"
)

const DefaultMaxPhotoBytes = 10 << 20

var (
	// ErrUnauthorized indicates a missing or rejected bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidReview indicates the review fields or the attached photo failed validation.
	ErrInvalidReview = errors.New("invalid review")
	// ErrReviewNotPersisted indicates the insert did not produce exactly one row.
	ErrReviewNotPersisted = errors.New("review not persisted")
)

var allowedPhotoTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// TokenVerifier decodes a bearer token into the identity it was issued for.
type TokenVerifier interface {
	Parse(token string) (auth.Identity, error)
}

// ReviewRequest carries the user supplied review fields.
type ReviewRequest struct {
	RestaurantID int64  `validate:"gt=0"`
	MenuID       int64  `validate:"gt=0"`
	Rating       int    `validate:"min=1,max=5"`
	Content      string `validate:"required,max=2000"`
}

// Photo is an uploaded image attached to a review.
type Photo struct {
	Filename string
	Size     int64
	Body     io.ReadSeeker
}

// ReviewService creates reviews on behalf of authenticated users.
type ReviewService interface {
	// CreateReview returns the number of inserted rows. Callers treat anything
	// but one as failure.
	CreateReview(ctx context.Context, token string, req ReviewRequest) (int64, error)
	// CreateReviewPhoto stores the optional photo and then the review.
	CreateReviewPhoto(ctx context.Context, token string, req ReviewRequest, photo *Photo) error
}

type reviewService struct {
	reviews       repository.ReviewRepository
	users         repository.UserRepository
	tokens        TokenVerifier
	photos        storage.Service
	maxPhotoBytes int64
}

func NewReviewService(reviews repository.ReviewRepository, users repository.UserRepository, tokens TokenVerifier, photos storage.Service, maxPhotoBytes int64) ReviewService {
	if maxPhotoBytes <= 0 {
		maxPhotoBytes = DefaultMaxPhotoBytes
	}
	return &reviewService{
		reviews:       reviews,
		users:         users,
		tokens:        tokens,
		photos:        photos,
		maxPhotoBytes: maxPhotoBytes,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, token string, req ReviewRequest) (int64, error) {
	review, err := s.prepare(ctx, token, req)
	if err != nil {
		return 0, err
	}
	return s.reviews.Create(ctx, review)
}

func (s *reviewService) CreateReviewPhoto(ctx context.Context, token string, req ReviewRequest, photo *Photo) error {
	review, err := s.prepare(ctx, token, req)
	if err != nil {
		return err
	}

	var photoKey string
	if photo != nil {
		photoKey, review.PhotoURL, err = s.storePhoto(ctx, review.RestaurantID, photo)
		if err != nil {
			return err
		}
	}

	rows, err := s.reviews.Create(ctx, review)
	if err == nil && rows != 1 {
		err = fmt.Errorf("%w: %d rows inserted", ErrReviewNotPersisted, rows)
	}
	if err != nil && photoKey != "" {
		if delErr := s.photos.Delete(ctx, photoKey); delErr != nil {
			err = errors.Join(err, fmt.Errorf("remove orphaned photo: %w", delErr))
		}
	}
	return err
}

func (s *reviewService) prepare(ctx context.Context, token string, req ReviewRequest) (*domain.Review, error) {
	identity, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if _, err := s.users.GetByID(ctx, identity.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user %d", ErrUnauthorized, identity.UserID)
		}
		return nil, fmt.Errorf("load author: %w", err)
	}

	req.Content = strings.TrimSpace(req.Content)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReview, describeValidation(err))
	}

	return &domain.Review{
		RestaurantID: req.RestaurantID,
		MenuID:       req.MenuID,
		UserID:       identity.UserID,
		Rating:       req.Rating,
		Content:      req.Content,
	}, nil
}

func (s *reviewService) storePhoto(ctx context.Context, restaurantID int64, photo *Photo) (key, url string, err error) {
	if s.photos == nil {
		return "", "", fmt.Errorf("photo storage not configured")
	}
	if photo.Body == nil || photo.Size <= 0 {
		return "", "", fmt.Errorf("%w: empty photo", ErrInvalidReview)
	}
	if photo.Size > s.maxPhotoBytes {
		return "", "", fmt.Errorf("%w: photo exceeds %d bytes", ErrInvalidReview, s.maxPhotoBytes)
	}

	mtype, err := mimetype.DetectReader(photo.Body)
	if err != nil {
		return "", "", fmt.Errorf("detect photo type: %w", err)
	}
	if !mimetype.EqualsAny(mtype.String(), allowedPhotoTypes...) {
		return "", "", fmt.Errorf("%w: unsupported photo type %s", ErrInvalidReview, mtype.String())
	}
	if _, err := photo.Body.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("rewind photo: %w", err)
	}

	key = fmt.Sprintf("reviews/%d/%s%s", restaurantID, uuid.NewString(), mtype.Extension())
	url, err = s.photos.Put(ctx, storage.Object{
		Key:         key,
		ContentType: mtype.String(),
		Size:        photo.Size,
		Body:        photo.Body,
	})
	if err != nil {
		return "", "", fmt.Errorf("store photo: %w", err)
	}
	return key, url, nil
}
