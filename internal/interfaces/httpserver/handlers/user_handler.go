package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fileflux/fileflux-manager-webapp/internal/domain/user"
	"github.com/fileflux/fileflux-manager-webapp/internal/interfaces/httpserver/responses"
)

// UserHandler exposes account endpoints.
type UserHandler struct {
	users *user.Service
	log   zerolog.Logger
}

func NewUserHandler(users *user.Service, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log.With().Str("component", "user-handler").Logger(),
	}
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Create registers a new account.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	userID, err := h.users.Create(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		responses.HandleError(c, h.log, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user_id": userID,
	})
}

// Authenticate confirms the credentials already verified by the auth
// middleware.
func (h *UserHandler) Authenticate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Authenticated successfully"})
}
