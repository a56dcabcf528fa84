package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"tactac/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds unsaved domain entities with plausible fake content.
type Factory struct {
	faker   *gofakeit.Faker
	rng     *rand.Rand
	maxDays int
	now     func() time.Time
}

// NewFactory creates a Factory. A zero seed picks a random one.
func NewFactory(seed int64, maxDays int) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if maxDays <= 0 {
		maxDays = 30
	}
	return &Factory{
		faker: gofakeit.New(seed),
		// #nosec G404: acceptable for seeding
		rng:     rand.New(rand.NewSource(seed)),
		maxDays: maxDays,
		now:     time.Now,
	}
}

// BuildUser returns an active user numbered n. The number keeps usernames and
// emails unique within a run.
func (f *Factory) BuildUser(n int, passwordDigest string) *models.User {
	base := sanitizeUsername(f.faker.FirstName() + f.faker.LastName())
	if len(base) > 20 {
		base = base[:20]
	}
	if len(base) < 3 {
		base = "user"
	}
	username := fmt.Sprintf("%s_%d", base, n)

	return &models.User{
		Username:     username,
		Email:        strings.ToLower(username) + "@example.com",
		Password:     passwordDigest,
		Role:         models.RoleUser,
		Status:       models.StatusActive,
		Bio:          truncate(f.faker.Sentence(10), 500),
		ProfileImage: fmt.Sprintf("https://i.pravatar.cc/400?u=%s", f.faker.UUID()),
	}
}

// BuildPost returns a post by author with a created-at spread over the last maxDays.
func (f *Factory) BuildPost(author *models.User) *models.Post {
	return &models.Post{
		AuthorID:  author.ID,
		Image:     fmt.Sprintf("https://picsum.photos/seed/%s/1200/1200", f.faker.UUID()),
		Caption:   truncate(f.faker.HipsterSentence(f.faker.Number(3, 12)), 500),
		CreatedAt: f.pastTime(),
	}
}

// BuildComment returns a comment by author on post.
func (f *Factory) BuildComment(author *models.User, post *models.Post) *models.Comment {
	return &models.Comment{
		AuthorID: author.ID,
		PostID:   post.ID,
		Content:  truncate(f.faker.Sentence(f.faker.Number(2, 15)), 1000),
	}
}

// Pick returns up to n distinct users other than exclude, in random order.
func (f *Factory) Pick(users []*models.User, n int, exclude uint) []*models.User {
	candidates := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.ID != exclude {
			candidates = append(candidates, u)
		}
	}
	f.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if n < len(candidates) {
		candidates = candidates[:n]
	}
	return candidates
}

// Intn returns a value in [0, n]. A non-positive n yields 0.
func (f *Factory) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return f.rng.Intn(n + 1)
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.rng.Intn(f.maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return f.now().Add(-back).UTC()
}

func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
