package comment_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/repository"
)

// memDB is an in-memory store shared by the fake repositories. Its transactor
// snapshots everything and restores the snapshot when the unit of work fails.
type memDB struct {
	mu       sync.Mutex
	comments map[int64]domain.Comment
	articles map[int64]domain.Article
	nextID   int64
	locked   []string

	failArticleBump error
	failReplyBump   error
}

func newMemDB() *memDB {
	return &memDB{
		comments: map[int64]domain.Comment{},
		articles: map[int64]domain.Article{},
	}
}

func (db *memDB) addArticle(id int64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.articles[id] = domain.Article{ID: id, Title: "article"}
}

func (db *memDB) comment(uid string) domain.Comment {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, c := range db.comments {
		if c.UID == uid {
			return c
		}
	}
	return domain.Comment{}
}

func (db *memDB) article(id int64) domain.Article {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.articles[id]
}

func (db *memDB) wasLocked(uid string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, l := range db.locked {
		if l == uid {
			return true
		}
	}
	return false
}

func (db *memDB) deletedCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, c := range db.comments {
		if c.DeletedAt != nil {
			n++
		}
	}
	return n
}

type memTransactor struct {
	db *memDB
}

func (t memTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.db.mu.Lock()
	comments := make(map[int64]domain.Comment, len(t.db.comments))
	for k, v := range t.db.comments {
		comments[k] = v
	}
	articles := make(map[int64]domain.Article, len(t.db.articles))
	for k, v := range t.db.articles {
		articles[k] = v
	}
	nextID := t.db.nextID
	t.db.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.db.mu.Lock()
		t.db.comments, t.db.articles, t.db.nextID = comments, articles, nextID
		t.db.mu.Unlock()
		return err
	}
	return nil
}

type memComments struct {
	db *memDB
}

var _ domain.CommentRepository = memComments{}

func (r memComments) Store(_ context.Context, c *domain.Comment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.nextID++
	c.ID = r.db.nextID
	c.CreatedAt = time.Date(2024, 1, 1, 0, 0, int(c.ID), 0, time.UTC)
	c.UpdatedAt = c.CreatedAt
	r.db.comments[c.ID] = *c
	return nil
}

func (r memComments) find(match func(domain.Comment) bool, withTrashed bool) (*domain.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.comments {
		if match(c) && (withTrashed || c.DeletedAt == nil) {
			found := c
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memComments) GetByID(_ context.Context, id int64, withTrashed bool) (*domain.Comment, error) {
	return r.find(func(c domain.Comment) bool { return c.ID == id }, withTrashed)
}

func (r memComments) GetByUID(_ context.Context, uid string, withTrashed bool) (*domain.Comment, error) {
	return r.find(func(c domain.Comment) bool { return c.UID == uid }, withTrashed)
}

func (r memComments) LockByUID(ctx context.Context, uid string) (*domain.Comment, error) {
	r.db.mu.Lock()
	r.db.locked = append(r.db.locked, uid)
	r.db.mu.Unlock()
	return r.GetByUID(ctx, uid, true)
}

func (r memComments) matching(f domain.CommentFilter) []domain.Comment {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var res []domain.Comment
	for _, c := range r.db.comments {
		switch f.Trashed {
		case domain.WithoutTrashed:
			if c.DeletedAt != nil {
				continue
			}
		case domain.OnlyTrashed:
			if c.DeletedAt == nil {
				continue
			}
		}
		if f.ArticleID != 0 && c.ArticleID != f.ArticleID {
			continue
		}
		if f.ParentID != nil && (c.ParentID == nil || *c.ParentID != *f.ParentID) {
			continue
		}
		if f.ParentID == nil && f.RootsOnly && c.ParentID != nil {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool {
		if f.FeaturedFirst && res[i].IsFeatured != res[j].IsFeatured {
			return res[i].IsFeatured
		}
		if f.Sort == domain.SortOldest {
			return res[i].ID < res[j].ID
		}
		return res[i].ID > res[j].ID
	})
	return res
}

func (r memComments) Fetch(_ context.Context, f domain.CommentFilter) ([]domain.Comment, error) {
	repository.NormalizeFilter(&f)
	all := r.matching(f)
	from := repository.Offset(f.Page, f.PerPage)
	if from >= len(all) {
		return []domain.Comment{}, nil
	}
	to := min(from+f.PerPage, len(all))
	return all[from:to], nil
}

func (r memComments) Count(_ context.Context, f domain.CommentFilter) (int64, error) {
	repository.NormalizeFilter(&f)
	return int64(len(r.matching(f))), nil
}

func (r memComments) HasLiveChildren(_ context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.comments {
		if c.ParentID != nil && *c.ParentID == id && c.DeletedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (r memComments) ChildIDs(_ context.Context, parentIDs []int64) ([]int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	parents := map[int64]bool{}
	for _, id := range parentIDs {
		parents[id] = true
	}
	var ids []int64
	for _, c := range r.db.comments {
		if c.ParentID != nil && parents[*c.ParentID] {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (r memComments) LockLive(_ context.Context, ids []int64) ([]domain.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var res []domain.Comment
	for _, id := range ids {
		if c, ok := r.db.comments[id]; ok && c.DeletedAt == nil {
			res = append(res, c)
		}
	}
	return res, nil
}

func (r memComments) SoftDelete(_ context.Context, ids []int64, at time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, id := range ids {
		c, ok := r.db.comments[id]
		if !ok {
			continue
		}
		if c.DeletedAt == nil {
			deletedAt := at
			c.DeletedAt = &deletedAt
		}
		c.ReplyCount = 0
		r.db.comments[id] = c
		n++
	}
	return n, nil
}

func (r memComments) Restore(_ context.Context, id int64) error {
	return r.update(id, true, func(c *domain.Comment) error {
		if c.DeletedAt == nil {
			return domain.ErrNotFound
		}
		c.DeletedAt = nil
		return nil
	})
}

func (r memComments) UpdateContent(_ context.Context, id int64, in domain.UpdateCommentInput) error {
	return r.update(id, false, func(c *domain.Comment) error {
		c.Content = in.Content
		c.Metadata = in.Metadata
		return nil
	})
}

func (r memComments) UpdateModeration(_ context.Context, m *domain.Comment) error {
	return r.update(m.ID, true, func(c *domain.Comment) error {
		c.Status = m.Status
		c.ModeratorID = m.ModeratorID
		c.ModeratedAt = m.ModeratedAt
		c.ModerationNotes = m.ModerationNotes
		return nil
	})
}

func (r memComments) SetFeatured(_ context.Context, id int64, featured bool) error {
	return r.update(id, false, func(c *domain.Comment) error {
		c.IsFeatured = featured
		return nil
	})
}

func (r memComments) AddReplyCount(_ context.Context, id int64, delta int64) error {
	if r.db.failReplyBump != nil {
		return r.db.failReplyBump
	}
	return r.update(id, true, func(c *domain.Comment) error {
		c.ReplyCount += delta
		return nil
	})
}

func (r memComments) AddVoteCounts(_ context.Context, id int64, likeDelta, dislikeDelta int64) error {
	return r.update(id, false, func(c *domain.Comment) error {
		c.LikeCount = max(c.LikeCount+likeDelta, 0)
		c.DislikeCount = max(c.DislikeCount+dislikeDelta, 0)
		return nil
	})
}

func (r memComments) ReplyCountDrift(_ context.Context, limit int) ([]domain.CounterDrift, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	actual := map[int64]int64{}
	for _, c := range r.db.comments {
		if c.ParentID != nil && c.DeletedAt == nil {
			actual[*c.ParentID]++
		}
	}
	var res []domain.CounterDrift
	for _, c := range r.db.comments {
		if c.ReplyCount != actual[c.ID] && len(res) < limit {
			res = append(res, domain.CounterDrift{ID: c.ID, Stored: c.ReplyCount, Actual: actual[c.ID]})
		}
	}
	return res, nil
}

func (r memComments) RecountReplies(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok {
		return nil
	}
	c.ReplyCount = 0
	for _, ch := range r.db.comments {
		if ch.ParentID != nil && *ch.ParentID == id && ch.DeletedAt == nil {
			c.ReplyCount++
		}
	}
	r.db.comments[id] = c
	return nil
}

// SetReplyCount forces a drifted counter.
func (r memComments) SetReplyCount(_ context.Context, id int64, count int64) error {
	return r.update(id, true, func(c *domain.Comment) error {
		c.ReplyCount = count
		return nil
	})
}

func (r memComments) update(id int64, withTrashed bool, fn func(c *domain.Comment) error) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.comments[id]
	if !ok || (!withTrashed && c.DeletedAt != nil) {
		return domain.ErrNotFound
	}
	if err := fn(&c); err != nil {
		return err
	}
	r.db.comments[id] = c
	return nil
}

type memArticles struct {
	db *memDB
}

var _ domain.ArticleRepository = memArticles{}

func (r memArticles) GetByID(_ context.Context, id int64) (domain.Article, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.articles[id]
	if !ok {
		return domain.Article{}, domain.ErrNotFound
	}
	return a, nil
}

func (r memArticles) AddCommentCount(_ context.Context, id int64, delta int64) error {
	if r.db.failArticleBump != nil {
		return r.db.failArticleBump
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.articles[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.CommentCount += delta
	r.db.articles[id] = a
	return nil
}

func (r memArticles) FetchIDs(_ context.Context, cursor, limit int64) ([]int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var ids []int64
	for id := range r.db.articles {
		if id > cursor {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if int64(len(ids)) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r memArticles) CommentCountDrift(_ context.Context, limit int) ([]domain.CounterDrift, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	actual := map[int64]int64{}
	for _, c := range r.db.comments {
		if c.IsApproved() && c.DeletedAt == nil {
			actual[c.ArticleID]++
		}
	}
	var res []domain.CounterDrift
	for _, a := range r.db.articles {
		if a.CommentCount != actual[a.ID] && len(res) < limit {
			res = append(res, domain.CounterDrift{ID: a.ID, Stored: a.CommentCount, Actual: actual[a.ID]})
		}
	}
	return res, nil
}

func (r memArticles) RecountComments(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.articles[id]
	if !ok {
		return nil
	}
	a.CommentCount = 0
	for _, c := range r.db.comments {
		if c.ArticleID == id && c.IsApproved() && c.DeletedAt == nil {
			a.CommentCount++
		}
	}
	r.db.articles[id] = a
	return nil
}

type memDirectory struct {
	articles memArticles
}

func (d memDirectory) Ensure(ctx context.Context, id int64, _ bool) error {
	_, err := d.articles.GetByID(ctx, id)
	return err
}

func (d memDirectory) Warm(context.Context) (int, error) {
	return 0, nil
}

type memVotes struct {
	mu   sync.Mutex
	sets map[string]bool
	err  error
}

func (v *memVotes) key(commentID int64, kind domain.VoteKind, voter string) string {
	return fmt.Sprintf("%d|%s|%s", commentID, kind, voter)
}

func (v *memVotes) Add(_ context.Context, commentID int64, kind domain.VoteKind, voter string) (bool, error) {
	if v.err != nil {
		return false, v.err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	k := v.key(commentID, kind, voter)
	if v.sets[k] {
		return false, nil
	}
	v.sets[k] = true
	return true, nil
}

func (v *memVotes) Remove(_ context.Context, commentID int64, kind domain.VoteKind, voter string) (bool, error) {
	if v.err != nil {
		return false, v.err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	k := v.key(commentID, kind, voter)
	if !v.sets[k] {
		return false, nil
	}
	delete(v.sets, k)
	return true, nil
}

type staticCapability map[int64]bool

func (s staticCapability) IsModerator(_ context.Context, actor *domain.User) bool {
	return actor != nil && s[actor.ID]
}

var errBoom = errors.New("connection reset by peer")
