package service

import (
	"context"
	"strings"
	"time"

	"tactac/internal/models"
	"tactac/internal/repository"
)

// FeedMode selects the ordering of the post feed.
type FeedMode string

const (
	FeedRecent   FeedMode = "recent"
	FeedTrending FeedMode = "trending"
)

// ParseFeedMode maps the feed filter query value to a mode. Empty means recent.
func ParseFeedMode(s string) (FeedMode, error) {
	switch FeedMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FeedRecent:
		return FeedRecent, nil
	case FeedTrending:
		return FeedTrending, nil
	}
	return "", models.NewValidationError("Invalid filter. Use 'recent' or 'trending'")
}

// FeedQuery is one page request of the feed.
type FeedQuery struct {
	Mode  FeedMode
	Page  int
	Limit int
}

// PostPage is one rendered page of posts.
type PostPage struct {
	Posts      []models.PostView `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

// GetFeed returns one page of the recent or trending feed rendered for caller.
func (s *PostService) GetFeed(ctx context.Context, caller *Caller, q FeedQuery) (*PostPage, error) {
	page, limit := s.limits.ClampPage(q.Page, q.Limit)
	pagination := models.NewPagination(page, limit, 0)

	filter := repository.PostFilter{
		Order:  repository.OrderNewest,
		Limit:  limit,
		Offset: pagination.Offset(),
	}
	switch q.Mode {
	case FeedRecent, "":
	case FeedTrending:
		filter.Order = repository.OrderMostLiked
		filter.CreatedSince = s.now().UTC().Add(-s.limits.TrendingWindow)
		filter.MinLikes = s.limits.TrendingMinLikes
	default:
		return nil, models.NewValidationError("Invalid filter. Use 'recent' or 'trending'")
	}

	return s.listPage(ctx, caller, filter, page, limit)
}

// ListUserPosts returns one page of a user's live posts, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, caller *Caller, username string, page, limit int) (*PostPage, error) {
	author, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewNotFoundError("User")
	}

	page, limit = s.limits.ClampPage(page, limit)
	filter := repository.PostFilter{
		AuthorID: author.ID,
		Order:    repository.OrderNewest,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}
	return s.listPage(ctx, caller, filter, page, limit)
}

func (s *PostService) listPage(ctx context.Context, caller *Caller, filter repository.PostFilter, page, limit int) (*PostPage, error) {
	posts, total, err := s.store.Posts().List(ctx, filter, repository.ExcludeDeleted)
	if err != nil {
		return nil, err
	}
	views, err := s.render(ctx, caller, posts)
	if err != nil {
		return nil, err
	}
	return &PostPage{
		Posts:      views,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

// render projects posts for caller. hasLiked is resolved with one batched lookup,
// and only for authenticated callers.
func (s *PostService) render(ctx context.Context, caller *Caller, posts []models.Post) ([]models.PostView, error) {
	liked := map[uint]bool{}
	if caller != nil && len(posts) > 0 {
		ids := make([]uint, len(posts))
		for i := range posts {
			ids[i] = posts[i].ID
		}
		likedIDs, err := s.store.Likes().LikedPostIDs(ctx, caller.ID, ids)
		if err != nil {
			return nil, err
		}
		for _, id := range likedIDs {
			liked[id] = true
		}
	}

	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		v := posts[i].View()
		v.IsOwner = Classify(caller, posts[i].AuthorID) == Owner
		v.HasLiked = liked[posts[i].ID]
		views = append(views, v)
	}
	return views, nil
}

func defaultNow() time.Time { return time.Now() }
