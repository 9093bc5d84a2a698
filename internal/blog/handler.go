package blog

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pressroom/service/internal/middleware"
	"github.com/pressroom/service/internal/response"
)

// Handler holds HTTP handlers for blog endpoints.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler creates a new blog Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

type postRequest struct {
	Title      string   `json:"title"      validate:"required,min=1,max=200" example:"Shipping the new editor"`
	Excerpt    string   `json:"excerpt"    validate:"max=500"`
	Content    string   `json:"content"    validate:"required"`
	CoverImage string   `json:"coverImage" validate:"omitempty,url"`
	Tags       []string `json:"tags"       validate:"max=10,dive,min=1,max=40"`
	Published  bool     `json:"published"`
}

// pagination reads limit/offset query parameters with sane bounds.
func pagination(r *http.Request) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// ListPublished godoc
//
//	@Summary		List published posts
//	@Description	Returns published posts, newest first.
//	@Tags			posts
//	@Produce		json
//	@Param			limit	query		int	false	"Page size (max 100)"	default(20)
//	@Param			offset	query		int	false	"Page offset"			default(0)
//	@Success		200		{object}	response.Envelope{data=[]Post}
//	@Failure		500		{object}	response.Envelope
//	@Router			/posts [get]
func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	posts, err := h.svc.ListPublished(r.Context(), limit, offset)
	if err != nil {
		log.Printf("blog: list published: %v", err)
		response.InternalError(w)
		return
	}
	if posts == nil {
		posts = []Post{}
	}
	response.OK(w, posts)
}

// ListAll godoc
//
//	@Summary		List all posts
//	@Description	Returns every post including drafts, newest first. Admin only.
//	@Tags			posts
//	@Produce		json
//	@Security		BearerAuth
//	@Param			limit	query		int	false	"Page size (max 100)"	default(20)
//	@Param			offset	query		int	false	"Page offset"			default(0)
//	@Success		200		{object}	response.Envelope{data=[]Post}
//	@Failure		401		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/posts/drafts [get]
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	posts, err := h.svc.ListAll(r.Context(), limit, offset)
	if err != nil {
		log.Printf("blog: list all: %v", err)
		response.InternalError(w)
		return
	}
	if posts == nil {
		posts = []Post{}
	}
	response.OK(w, posts)
}

// GetBySlug godoc
//
//	@Summary		Get a published post
//	@Description	Fetches a single published post by its slug.
//	@Tags			posts
//	@Produce		json
//	@Param			slug	path		string	true	"Post slug"
//	@Success		200		{object}	response.Envelope{data=Post}
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/posts/{slug} [get]
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	p, err := h.svc.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "post not found")
			return
		}
		log.Printf("blog: get %s: %v", slug, err)
		response.InternalError(w)
		return
	}
	response.OK(w, p)
}

// Create godoc
//
//	@Summary		Create a post
//	@Description	Creates a post (draft or published) authored by the caller. Admin only.
//	@Tags			posts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		postRequest	true	"Post content"
//	@Success		201		{object}	response.Envelope{data=Post}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/posts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "title and content are required")
		return
	}

	p, err := h.svc.Create(r.Context(), &Post{
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Published:  req.Published,
		AuthorID:   authorID,
	})
	if errors.Is(err, ErrSlugTaken) {
		response.Conflict(w, "a post with this title already exists")
		return
	}
	if err != nil {
		log.Printf("blog: create: %v", err)
		response.InternalError(w)
		return
	}

	response.Created(w, p)
}

// Update godoc
//
//	@Summary		Update a post
//	@Description	Rewrites a post's content and publication state. The slug never changes. Admin only.
//	@Tags			posts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string		true	"Post ID"
//	@Param			request	body		postRequest	true	"Post content"
//	@Success		200		{object}	response.Envelope{data=Post}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/posts/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "title and content are required")
		return
	}

	p, err := h.svc.Update(r.Context(), id, &Post{
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Published:  req.Published,
	})
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "post not found")
			return
		}
		log.Printf("blog: update %s: %v", id, err)
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}

// Delete godoc
//
//	@Summary		Delete a post
//	@Description	Removes a post. Admin only.
//	@Tags			posts
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Post ID"
//	@Success		200	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/posts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "post not found")
			return
		}
		log.Printf("blog: delete %s: %v", id, err)
		response.InternalError(w)
		return
	}

	response.OKMessage(w, "Post deleted")
}
