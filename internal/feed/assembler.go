// Package feed assembles home feed pages from batched engagement lookups.
//
// A page costs a fixed number of queries no matter how many posts it
// holds: one page fetch plus one aggregate each for like counts, comment
// counts, author avatars, and (for signed-in viewers) the liked set.
package feed

import (
	"context"
	"time"

	"gardencircle/internal/cache"
	"gardencircle/internal/models"
	"gardencircle/internal/observability"
	"gardencircle/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Item is one fully hydrated feed entry.
type Item struct {
	ID            uint      `json:"id"`
	AuthorID      *uint     `json:"authorId"`
	AuthorName    string    `json:"authorName"`
	AuthorAvatar  string    `json:"authorAvatar"`
	Content       string    `json:"content"`
	ImagePath     string    `json:"imagePath"`
	LikesCount    int64     `json:"likesCount"`
	CommentsCount int64     `json:"commentsCount"`
	Liked         bool      `json:"liked"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Assembler builds feed pages. The anonymous view of a page is cacheable;
// the viewer's liked set is re-applied per request on top of it.
type Assembler struct {
	posts repository.PostRepository
	users repository.UserRepository
}

// NewAssembler creates a feed assembler.
func NewAssembler(posts repository.PostRepository, users repository.UserRepository) *Assembler {
	return &Assembler{posts: posts, users: users}
}

// Page returns one hydrated feed page ordered newest first. Any failed
// aggregate lookup fails the whole page; a partially hydrated feed would
// silently show wrong counts.
func (a *Assembler) Page(ctx context.Context, limit, offset int, viewerID uint) ([]Item, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	start := time.Now()

	var items []Item
	err := cache.Aside(ctx, cache.FeedPageKey(limit, offset), &items, cache.FeedPageTTL, func() error {
		assembled, err := a.assemble(ctx, limit, offset)
		if err != nil {
			return err
		}
		items = assembled
		return nil
	})
	if err != nil {
		return nil, err
	}

	if viewerID != 0 && len(items) > 0 {
		if err := a.applyLikedSet(ctx, viewerID, items); err != nil {
			return nil, err
		}
		observability.ObserveFeedAssembly(start, "liked_set")
		return items, nil
	}

	observability.FeedAssemblyLatency.Observe(time.Since(start).Seconds())
	return items, nil
}

// assemble builds the anonymous view of one page: the post rows plus three
// batched aggregates keyed by post or author id.
func (a *Assembler) assemble(ctx context.Context, limit, offset int) ([]Item, error) {
	posts, err := a.posts.ListPage(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []Item{}, nil
	}

	postIDs := make([]uint, 0, len(posts))
	authorIDs := make([]uint, 0, len(posts))
	seenAuthors := make(map[uint]struct{})
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if p.AuthorID == nil || *p.AuthorID == 0 {
			continue
		}
		if _, ok := seenAuthors[*p.AuthorID]; ok {
			continue
		}
		seenAuthors[*p.AuthorID] = struct{}{}
		authorIDs = append(authorIDs, *p.AuthorID)
	}

	likeCounts, err := a.posts.LikeCountsByPost(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	commentCounts, err := a.posts.CommentCountsByPost(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	avatars, err := a.users.AvatarsByUser(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	// Latency is recorded once per page in Page; only the query counters
	// belong here.
	observability.CountFeedQueries("likes", "comments", "avatars")

	items := make([]Item, 0, len(posts))
	for _, p := range posts {
		item := Item{
			ID:         p.ID,
			AuthorID:   p.AuthorID,
			AuthorName: p.AuthorName,
			Content:    p.Content,
			ImagePath:  p.ImagePath,
			CreatedAt:  p.CreatedAt,
			// Posts absent from an aggregate map keep zero values.
			LikesCount:    likeCounts[p.ID],
			CommentsCount: commentCounts[p.ID],
		}
		if p.AuthorID != nil {
			item.AuthorAvatar = avatars[*p.AuthorID]
		}
		items = append(items, item)
	}
	return items, nil
}

// applyLikedSet marks which page items the viewer has liked, in one query.
func (a *Assembler) applyLikedSet(ctx context.Context, viewerID uint, items []Item) error {
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	likedIDs, err := a.posts.LikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return err
	}
	liked := make(map[uint]struct{}, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = struct{}{}
	}
	for i := range items {
		_, ok := liked[items[i].ID]
		items[i].Liked = ok
	}
	return nil
}

// ItemFromPost hydrates a single post the same way a feed page entry is
// hydrated, for detail endpoints that already carry subquery columns.
func ItemFromPost(p *models.Post, avatar string) Item {
	return Item{
		ID:            p.ID,
		AuthorID:      p.AuthorID,
		AuthorName:    p.AuthorName,
		AuthorAvatar:  avatar,
		Content:       p.Content,
		ImagePath:     p.ImagePath,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		Liked:         p.Liked,
		CreatedAt:     p.CreatedAt,
	}
}
