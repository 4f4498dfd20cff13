package reviews

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"animefinder.org/animefinder/internal/catalog"
)

var (
	// ErrUnauthenticated is returned when an action requires a signed-in user.
	ErrUnauthenticated = errors.New("reviews: sign in required")
	// ErrNotOwner is returned when a delete targets another user's review.
	ErrNotOwner = errors.New("reviews: not the review owner")
	// ErrAlreadyReviewed is returned when the user already reviewed the item.
	ErrAlreadyReviewed = errors.New("reviews: already reviewed this title")
	// ErrInvalidReview is returned when title or contents are empty after trimming.
	ErrInvalidReview = errors.New("reviews: title and contents are required")
)

const (
	ratingMin = 1
	ratingMax = 10
)

// TitleResolver looks up catalog items to attach display titles to reviews.
type TitleResolver interface {
	Get(ctx context.Context, id string) (*catalog.Anime, error)
}

// AuthoredReview is a review joined with the title of the item it reviews.
type AuthoredReview struct {
	Review
	AnimeTitle string
}

// Ledger applies the review rules (filtering, ordering, duplicate guard,
// ownership) on top of the raw store.
type Ledger struct {
	store     Store
	resolver  TitleResolver
	sanitizer *bluemonday.Policy
	logger    *zap.Logger
	now       func() time.Time
}

// NewLedger constructs a Ledger. resolver may be nil when the caller never
// lists by user.
func NewLedger(store Store, resolver TitleResolver, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		store:     store,
		resolver:  resolver,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the ledger clock. Intended for tests.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// ListForAnime returns the reviews for one catalog item, newest first.
// Item ids arrive from the store as strings or numbers, so the comparison
// runs over the normalized form.
func (l *Ledger) ListForAnime(ctx context.Context, animeID string) ([]Review, error) {
	all, err := l.store.List(ctx)
	if err != nil {
		l.logger.Warn("review list fetch failed", zap.String("animeId", animeID), zap.Error(err))
		return nil, err
	}

	matched := make([]Review, 0)
	for _, review := range all {
		if review.AnimeID.String() == animeID {
			matched = append(matched, review)
		}
	}
	sortNewestFirst(matched)
	return matched, nil
}

// ListByUser returns one user's reviews, newest first, each resolved
// against the catalog for a display title. One catalog lookup is made per
// review; fine for this store's volumes, unusable against a real backend.
func (l *Ledger) ListByUser(ctx context.Context, userid string) ([]AuthoredReview, error) {
	all, err := l.store.List(ctx)
	if err != nil {
		l.logger.Warn("review list fetch failed", zap.String("userid", userid), zap.Error(err))
		return nil, err
	}

	matched := make([]Review, 0)
	for _, review := range all {
		if review.UserID == userid {
			matched = append(matched, review)
		}
	}
	sortNewestFirst(matched)

	authored := make([]AuthoredReview, 0, len(matched))
	for _, review := range matched {
		entry := AuthoredReview{Review: review, AnimeTitle: "Unknown title"}
		if l.resolver != nil {
			if anime, err := l.resolver.Get(ctx, review.AnimeID.String()); err == nil && anime.Title != "" {
				entry.AnimeTitle = anime.Title
			} else if err != nil {
				l.logger.Warn("title lookup failed",
					zap.String("animeId", review.AnimeID.String()), zap.Error(err))
			}
		}
		authored = append(authored, entry)
	}
	return authored, nil
}

// Create validates and posts a new review, then returns the refreshed list
// for the item. The duplicate guard runs against the list fetched in this
// call; two simultaneous submissions can still both pass it, mirroring the
// store's lack of uniqueness enforcement.
func (l *Ledger) Create(ctx context.Context, userid, animeID, title, contents string, rating int) ([]Review, error) {
	if userid == "" {
		return nil, ErrUnauthenticated
	}

	title = strings.TrimSpace(l.sanitizer.Sanitize(title))
	contents = strings.TrimSpace(l.sanitizer.Sanitize(contents))
	if title == "" || contents == "" {
		return nil, ErrInvalidReview
	}
	if rating < ratingMin {
		rating = ratingMin
	}
	if rating > ratingMax {
		rating = ratingMax
	}

	existing, err := l.ListForAnime(ctx, animeID)
	if err != nil {
		return nil, err
	}
	for _, review := range existing {
		if review.UserID == userid {
			return nil, ErrAlreadyReviewed
		}
	}

	review := Review{
		AnimeID:  FlexID(animeID),
		Title:    title,
		Contents: contents,
		Rating:   rating,
		UserID:   userid,
		Time:     l.now().Unix(),
	}
	if err := l.store.Create(ctx, review); err != nil {
		l.logger.Warn("review create failed", zap.String("animeId", animeID), zap.Error(err))
		return nil, fmt.Errorf("create review: %w", err)
	}

	return l.ListForAnime(ctx, animeID)
}

// Delete removes a review after checking ownership. The store itself
// accepts any delete, so this check is the only enforcement point.
func (l *Ledger) Delete(ctx context.Context, userid, reviewID, ownerUserID string) error {
	if userid == "" {
		return ErrUnauthenticated
	}
	if userid != ownerUserID {
		return ErrNotOwner
	}

	if err := l.store.Delete(ctx, reviewID); err != nil {
		l.logger.Warn("review delete failed", zap.String("reviewId", reviewID), zap.Error(err))
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// sortNewestFirst orders by time descending, keeping fetch order for ties.
func sortNewestFirst(list []Review) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Time > list[j].Time
	})
}
