package job

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pressroom/service/internal/response"
)

// Handler holds HTTP handlers for job posting endpoints.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler creates a new job Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

type jobRequest struct {
	Title          string `json:"title"          validate:"required,min=1,max=200" example:"Senior Backend Engineer"`
	Location       string `json:"location"       validate:"max=120"                example:"Remote (EU)"`
	EmploymentType string `json:"employmentType" validate:"required,oneof=full_time part_time contract internship"`
	Description    string `json:"description"    validate:"required"`
	ApplyURL       string `json:"applyUrl"       validate:"omitempty,url"`
	Active         bool   `json:"active"`
}

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

// ListActive godoc
//
//	@Summary		List open positions
//	@Description	Returns active job postings, newest first.
//	@Tags			jobs
//	@Produce		json
//	@Param			limit	query		int	false	"Page size (max 100)"	default(20)
//	@Param			offset	query		int	false	"Page offset"			default(0)
//	@Success		200		{object}	response.Envelope{data=[]Job}
//	@Failure		500		{object}	response.Envelope
//	@Router			/jobs [get]
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	jobs, err := h.svc.ListActive(r.Context(), limit, offset)
	if err != nil {
		log.Printf("job: list active: %v", err)
		response.InternalError(w)
		return
	}
	if jobs == nil {
		jobs = []Job{}
	}
	response.OK(w, jobs)
}

// Get godoc
//
//	@Summary		Get a job posting
//	@Description	Fetches a single job posting by ID, whether or not it is still active.
//	@Tags			jobs
//	@Produce		json
//	@Param			id	path		string	true	"Job ID"
//	@Success		200	{object}	response.Envelope{data=Job}
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/jobs/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	j, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "job not found")
			return
		}
		log.Printf("job: get %s: %v", id, err)
		response.InternalError(w)
		return
	}
	response.OK(w, j)
}

// Create godoc
//
//	@Summary		Create a job posting
//	@Description	Publishes a new job posting. Admin only.
//	@Tags			jobs
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		jobRequest	true	"Job details"
//	@Success		201		{object}	response.Envelope{data=Job}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/jobs [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "title, description, and a valid employment type are required")
		return
	}

	j, err := h.svc.Create(r.Context(), &Job{
		Title:          req.Title,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		Description:    req.Description,
		ApplyURL:       req.ApplyURL,
		Active:         req.Active,
	})
	if err != nil {
		log.Printf("job: create: %v", err)
		response.InternalError(w)
		return
	}

	response.Created(w, j)
}

// Update godoc
//
//	@Summary		Update a job posting
//	@Description	Rewrites a job posting, including its active flag. Admin only.
//	@Tags			jobs
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string		true	"Job ID"
//	@Param			request	body		jobRequest	true	"Job details"
//	@Success		200		{object}	response.Envelope{data=Job}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/jobs/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "title, description, and a valid employment type are required")
		return
	}

	j, err := h.svc.Update(r.Context(), id, &Job{
		Title:          req.Title,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		Description:    req.Description,
		ApplyURL:       req.ApplyURL,
		Active:         req.Active,
	})
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "job not found")
			return
		}
		log.Printf("job: update %s: %v", id, err)
		response.InternalError(w)
		return
	}

	response.OK(w, j)
}

// Delete godoc
//
//	@Summary		Delete a job posting
//	@Description	Removes a job posting. Admin only.
//	@Tags			jobs
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Job ID"
//	@Success		200	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/jobs/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound(w, "job not found")
			return
		}
		log.Printf("job: delete %s: %v", id, err)
		response.InternalError(w)
		return
	}

	response.OKMessage(w, "Job deleted")
}
