package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/Go-Comment-Moderation/domain"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/rest/middleware"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/rest/request"
	"github.com/Guyuepp/Go-Comment-Moderation/internal/rest/response"
)

// CommentHandler represent the httphandler for comments
type CommentHandler struct {
	Service domain.CommentUsecase
}

func NewCommentHandler(svc domain.CommentUsecase) *CommentHandler {
	return &CommentHandler{
		Service: svc,
	}
}

// Register mounts the comment routes. Every route resolves the actor itself,
// so authentication requirements are enforced by the service.
func (h *CommentHandler) Register(r gin.IRouter) {
	r.GET("/comments", h.List)
	r.GET("/articles/:id/comments", h.ListByArticle)
	r.GET("/comments/:uid", h.Show)
	r.GET("/comments/:uid/replies", h.ListReplies)

	r.POST("/comments", h.Create)
	r.PUT("/comments/:uid", h.Update)
	r.DELETE("/comments/:uid", h.Delete)
	r.POST("/comments/:uid/restore", h.Restore)

	r.POST("/comments/:uid/approve", h.Approve)
	r.POST("/comments/:uid/reject", h.Reject)
	r.POST("/comments/:uid/spam", h.MarkSpam)
	r.POST("/comments/:uid/feature", h.Feature)
	r.POST("/comments/:uid/vote", h.Vote)
}

func (h *CommentHandler) List(c *gin.Context) {
	var req request.ListComments
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, request.BindError(err))
		return
	}
	h.list(c, req.ToFilter())
}

func (h *CommentHandler) ListByArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, domain.ErrNotFound)
		return
	}
	var req request.ListComments
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, request.BindError(err))
		return
	}
	f := req.ToFilter()
	f.ArticleID = id
	h.list(c, f)
}

func (h *CommentHandler) list(c *gin.Context, f domain.CommentFilter) {
	page, err := h.Service.List(c.Request.Context(), middleware.Actor(c), f)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentPageFromDomain(page))
}

func (h *CommentHandler) Show(c *gin.Context) {
	res, err := h.Service.Show(c.Request.Context(), middleware.Actor(c), c.Param("uid"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentFromDomain(res))
}

func (h *CommentHandler) ListReplies(c *gin.Context) {
	var req request.Pagination
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, request.BindError(err))
		return
	}
	page, err := h.Service.ListReplies(c.Request.Context(), middleware.Actor(c), c.Param("uid"), req.Page, req.PerPage)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentPageFromDomain(page))
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req request.CreateComment
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, request.BindError(err))
		return
	}
	in := req.ToDomain()
	in.IPAddress = c.ClientIP()
	in.UserAgent = c.Request.UserAgent()

	res, err := h.Service.Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewCommentFromDomain(res))
}

func (h *CommentHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)
	if actor == nil {
		abortWithError(c, domain.ErrUnauthenticated)
		return
	}
	var req request.UpdateComment
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, request.BindError(err))
		return
	}

	res, err := h.Service.UpdateContent(c.Request.Context(), actor, c.Param("uid"), req.ToDomain())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentFromDomain(res))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), middleware.Actor(c), c.Param("uid")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) Restore(c *gin.Context) {
	res, err := h.Service.Restore(c.Request.Context(), middleware.Actor(c), c.Param("uid"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentFromDomain(res))
}

type moderateFunc func(ctx *gin.Context, actor *domain.User, uid, notes string) (*domain.Comment, error)

func (h *CommentHandler) moderate(c *gin.Context, fn moderateFunc) {
	actor := middleware.Actor(c)
	if actor == nil {
		abortWithError(c, domain.ErrUnauthenticated)
		return
	}
	// the body is optional; an empty one, chunked or not, means no notes
	var req request.Moderate
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, request.BindError(err))
		return
	}

	res, err := fn(c, actor, c.Param("uid"), req.Notes)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentFromDomain(res))
}

func (h *CommentHandler) Approve(c *gin.Context) {
	h.moderate(c, func(ctx *gin.Context, actor *domain.User, uid, notes string) (*domain.Comment, error) {
		return h.Service.Approve(ctx.Request.Context(), actor, uid, notes)
	})
}

func (h *CommentHandler) Reject(c *gin.Context) {
	h.moderate(c, func(ctx *gin.Context, actor *domain.User, uid, notes string) (*domain.Comment, error) {
		return h.Service.Reject(ctx.Request.Context(), actor, uid, notes)
	})
}

func (h *CommentHandler) MarkSpam(c *gin.Context) {
	h.moderate(c, func(ctx *gin.Context, actor *domain.User, uid, notes string) (*domain.Comment, error) {
		return h.Service.MarkSpam(ctx.Request.Context(), actor, uid, notes)
	})
}

func (h *CommentHandler) Feature(c *gin.Context) {
	actor := middleware.Actor(c)
	if actor == nil {
		abortWithError(c, domain.ErrUnauthenticated)
		return
	}
	var req request.Feature
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, request.BindError(err))
		return
	}

	res, err := h.Service.SetFeatured(c.Request.Context(), actor, c.Param("uid"), *req.Featured)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewCommentFromDomain(res))
}

func (h *CommentHandler) Vote(c *gin.Context) {
	var req request.Vote
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, request.BindError(err))
		return
	}

	res, err := h.Service.Vote(c.Request.Context(), voterKey(c), c.Param("uid"), domain.VoteAction(req.Action))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewVoteResultFromDomain(res))
}

// voterKey identifies a voter: the account when signed in, the client address otherwise.
func voterKey(c *gin.Context) string {
	if actor := middleware.Actor(c); actor != nil {
		return "user:" + strconv.FormatInt(actor.ID, 10)
	}
	return "guest:" + c.ClientIP()
}
