package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/pressroom/service/internal/response"
	"github.com/pressroom/service/internal/user"
)

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

// NewHandler creates a new auth Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=120" example:"Robin Harper"`
	Email    string `json:"email"    validate:"required,email"         example:"robin@pressroom.dev"`
	Password string `json:"password" validate:"required,min=8,max=72"  example:"correct horse battery"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email" example:"robin@pressroom.dev"`
	Password string `json:"password" validate:"required"       example:"correct horse battery"`
}

type tokenData struct {
	Token string    `json:"token" example:"eyJhbGci..."`
	User  user.User `json:"user"`
}

// Register godoc
//
//	@Summary		Register
//	@Description	Create a new account and receive a JWT. New accounts carry the "user" role.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"Account details"
//	@Success		201		{object}	response.Envelope{data=tokenData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "name, a valid email, and a password of at least 8 characters are required")
		return
	}

	token, u, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, ErrEmailTaken) {
		response.Conflict(w, "email already registered")
		return
	}
	if err != nil {
		log.Printf("auth: register: %v", err)
		response.InternalError(w)
		return
	}

	response.Created(w, tokenData{Token: token, User: *u})
}

// Login godoc
//
//	@Summary		Login
//	@Description	Exchange email and password for a JWT.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	response.Envelope{data=tokenData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, "email and password are required")
		return
	}

	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		response.Unauthorized(w, "invalid email or password")
		return
	}
	if err != nil {
		log.Printf("auth: login: %v", err)
		response.InternalError(w)
		return
	}

	response.OK(w, tokenData{Token: token, User: *u})
}
