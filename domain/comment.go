package domain

import (
	"context"
	"time"
)

// MaxThreadDepth is the number of ancestor hops a newly created comment must stay below.
const MaxThreadDepth = 3

// CommentStatus is the moderation state of a comment
type CommentStatus string

const (
	StatusPending  CommentStatus = "pending"
	StatusApproved CommentStatus = "approved"
	StatusRejected CommentStatus = "rejected"
	StatusSpam     CommentStatus = "spam"
)

func (s CommentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSpam:
		return true
	}
	return false
}

// CanTransitionTo reports whether a moderator may move a comment from s to target.
// Pending is only ever entered on creation.
func (s CommentStatus) CanTransitionTo(target CommentStatus) bool {
	return s.Valid() && target.Valid() && target != StatusPending
}

// Comment domain model
type Comment struct {
	ID        int64
	UID       string // opaque identifier exposed to clients
	ArticleID int64
	ParentID  *int64
	ParentUID string

	UserID      *int64 // nil for guests
	AuthorName  string
	AuthorEmail string

	Content  string
	Metadata map[string]string

	Status       CommentStatus
	ReplyCount   int64
	LikeCount    int64
	DislikeCount int64
	IsFeatured   bool

	ModeratorID     *int64
	ModeratedAt     *time.Time
	ModerationNotes string

	IPAddress string
	UserAgent string

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

func (c *Comment) IsDeleted() bool {
	return c.DeletedAt != nil
}

func (c *Comment) IsApproved() bool {
	return c.Status == StatusApproved
}

// IsAuthoredBy reports whether the registered user u wrote the comment.
func (c *Comment) IsAuthoredBy(u *User) bool {
	return u != nil && c.UserID != nil && *c.UserID == u.ID
}

// TrashedMode selects how soft-deleted comments take part in a listing
type TrashedMode string

const (
	WithoutTrashed TrashedMode = "without"
	WithTrashed    TrashedMode = "with"
	OnlyTrashed    TrashedMode = "only"
)

// CommentSort is the listing order
type CommentSort string

const (
	SortNewest CommentSort = "newest"
	SortOldest CommentSort = "oldest"
)

// CommentFilter holds listing criteria. Zero values mean "no constraint".
type CommentFilter struct {
	ArticleID     int64
	ParentID      *int64
	RootsOnly     bool
	Status        CommentStatus
	Trashed       TrashedMode
	Sort          CommentSort
	FeaturedFirst bool
	Page          int
	PerPage       int
}

// CommentPage is one page of a listing
type CommentPage struct {
	Items   []Comment
	Total   int64
	Page    int
	PerPage int
}

// CreateCommentInput is the payload of a create request
type CreateCommentInput struct {
	ArticleID  int64
	ParentUID  string
	Content    string
	GuestName  string
	GuestEmail string
	Metadata   map[string]string
	IPAddress  string
	UserAgent  string
}

// UpdateCommentInput is the author-editable field set
type UpdateCommentInput struct {
	Content  string
	Metadata map[string]string
}

// CounterDrift is a denormalised counter that disagrees with its source rows.
type CounterDrift struct {
	ID     int64
	Stored int64
	Actual int64
}

// CommentRepository defines the contract for comment persistence.
// Every method participates in the unit of work carried by ctx, if any.
type CommentRepository interface {
	// Store inserts a new comment and backfills ID and timestamps.
	Store(ctx context.Context, c *Comment) error

	// GetByID returns ErrNotFound if the comment doesn't exist.
	// Soft-deleted rows are only returned when withTrashed is set.
	GetByID(ctx context.Context, id int64, withTrashed bool) (*Comment, error)

	// GetByUID is GetByID keyed by the opaque identifier.
	GetByUID(ctx context.Context, uid string, withTrashed bool) (*Comment, error)

	// LockByUID loads the comment (trashed included) holding a row lock until the
	// surrounding unit of work ends.
	LockByUID(ctx context.Context, uid string) (*Comment, error)

	// Fetch returns one page of comments matching the filter, Count the total.
	Fetch(ctx context.Context, f CommentFilter) ([]Comment, error)
	Count(ctx context.Context, f CommentFilter) (int64, error)

	// HasLiveChildren reports whether any non-deleted direct child exists.
	HasLiveChildren(ctx context.Context, id int64) (bool, error)

	// ChildIDs returns the ids of all direct children of the given parents, trashed included.
	ChildIDs(ctx context.Context, parentIDs []int64) ([]int64, error)

	// LockLive locks the non-deleted rows among ids and returns them.
	LockLive(ctx context.Context, ids []int64) ([]Comment, error)

	// SoftDelete sweeps a whole subtree in one statement: live rows among ids are
	// marked deleted, and every row's reply_count drops to zero since none of them
	// keeps a live child.
	SoftDelete(ctx context.Context, ids []int64, at time.Time) (int64, error)

	// Restore clears the soft-delete marker of a single row.
	Restore(ctx context.Context, id int64) error

	UpdateContent(ctx context.Context, id int64, in UpdateCommentInput) error
	UpdateModeration(ctx context.Context, c *Comment) error
	SetFeatured(ctx context.Context, id int64, featured bool) error

	// AddReplyCount applies delta to reply_count.
	AddReplyCount(ctx context.Context, id int64, delta int64) error

	// AddVoteCounts applies the deltas to like_count / dislike_count, never below zero.
	AddVoteCounts(ctx context.Context, id int64, likeDelta, dislikeDelta int64) error

	// ReplyCountDrift lists comments whose reply_count differs from their live children.
	ReplyCountDrift(ctx context.Context, limit int) ([]CounterDrift, error)
	// RecountReplies recomputes reply_count from the live children in a single statement.
	RecountReplies(ctx context.Context, id int64) error
}

// CommentUsecase is the comment API surface
type CommentUsecase interface {
	List(ctx context.Context, actor *User, f CommentFilter) (CommentPage, error)
	ListReplies(ctx context.Context, actor *User, uid string, page, perPage int) (CommentPage, error)
	Show(ctx context.Context, actor *User, uid string) (*Comment, error)

	Create(ctx context.Context, actor *User, in CreateCommentInput) (*Comment, error)
	UpdateContent(ctx context.Context, actor *User, uid string, in UpdateCommentInput) (*Comment, error)
	Delete(ctx context.Context, actor *User, uid string) error
	Restore(ctx context.Context, actor *User, uid string) (*Comment, error)

	Approve(ctx context.Context, actor *User, uid string, notes string) (*Comment, error)
	Reject(ctx context.Context, actor *User, uid string, notes string) (*Comment, error)
	MarkSpam(ctx context.Context, actor *User, uid string, notes string) (*Comment, error)
	SetFeatured(ctx context.Context, actor *User, uid string, featured bool) (*Comment, error)

	Vote(ctx context.Context, voter string, uid string, action VoteAction) (VoteResult, error)
}
