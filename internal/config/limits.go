package config

import (
	"math"
	"time"
)

// Limits are the content and paging rules shared by the services. Values are
// fixed at construction and handed to each service by value.
type Limits struct {
	CaptionMaxLen  int
	CommentMaxLen  int
	BioMaxLen      int
	UsernameMinLen int
	UsernameMaxLen int
	PasswordMinLen int

	ImageMaxBytes     int64
	ImageMIMETypes    []string
	PostImageMaxSide  int
	ProfileImageSide  int
	ImageWebPQuality  int
	DefaultPageSize   int
	MaxPageSize       int
	TrendingWindow    time.Duration
	TrendingMinLikes  int
	MetricsCacheTTL   time.Duration
	NewAccountsWindow time.Duration
}

// DefaultLimits returns the production limits.
func DefaultLimits() Limits {
	return Limits{
		CaptionMaxLen:  500,
		CommentMaxLen:  1000,
		BioMaxLen:      500,
		UsernameMinLen: 3,
		UsernameMaxLen: 30,
		PasswordMinLen: 8,

		ImageMaxBytes:     5 * 1024 * 1024,
		ImageMIMETypes:    []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		PostImageMaxSide:  1200,
		ProfileImageSide:  400,
		ImageWebPQuality:  80,
		DefaultPageSize:   20,
		MaxPageSize:       100,
		TrendingWindow:    168 * time.Hour,
		TrendingMinLikes:  1,
		MetricsCacheTTL:   30 * time.Second,
		NewAccountsWindow: 24 * time.Hour,
	}
}

// ClampPage normalizes a 1-indexed page number and a page size. The page is
// capped so that (page-1)*limit stays within int.
func (l Limits) ClampPage(page, limit int) (int, int) {
	if limit <= 0 {
		limit = l.DefaultPageSize
	}
	if limit > l.MaxPageSize {
		limit = l.MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}

// AllowsMIME reports whether the content type is an accepted upload type.
func (l Limits) AllowsMIME(contentType string) bool {
	for _, t := range l.ImageMIMETypes {
		if t == contentType {
			return true
		}
	}
	return false
}
