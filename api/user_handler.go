package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"sup-api/auth"
	"sup-api/services"
	"sup-api/validation"
)

type UserHandler struct {
	users services.IUserService
	log   *slog.Logger
}

func NewUserHandler(users services.IUserService, log *slog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

var signupFields = []validation.Field{
	{Name: "username", Required: true, Kind: validation.String, TrimNonEmpty: true},
	{Name: "password", Required: true, Kind: validation.String},
}

var renameFields = []validation.Field{
	{Name: "username", Required: true, Kind: validation.String, TrimNonEmpty: true},
}

// Create handles POST /users. Signup is the one unauthenticated mutation.
func (h *UserHandler) Create(c *gin.Context) {
	payload := bindPayload(c)
	if err := validation.Check(payload, signupFields); err != nil {
		respondError(c, h.log, err)
		return
	}

	username := validation.TrimmedText(payload, "username")
	password := validation.Text(payload, "password")

	id, err := h.users.Signup(username, password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/users/%s", id))
	c.JSON(http.StatusCreated, gin.H{})
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toUserViews(users))
}

// Get handles GET /users/:userID. Any authenticated user may read any profile.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Param("userID"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

// Update handles PUT /users/:userID. Only the owner may rename themselves.
func (h *UserHandler) Update(c *gin.Context) {
	payload := bindPayload(c)
	if err := validation.Check(payload, renameFields); err != nil {
		respondError(c, h.log, err)
		return
	}

	err := h.users.Rename(auth.CallerID(c), c.Param("userID"), validation.TrimmedText(payload, "username"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Delete handles DELETE /users/:userID. Only the owner may delete themselves.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(auth.CallerID(c), c.Param("userID")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
