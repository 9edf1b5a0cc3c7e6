package controllers

import (
	"log"
	"net/http"
	"os"

	"civic-reporter-be/models"
	"civic-reporter-be/services"
	authUtils "civic-reporter-be/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Login derives the caller's identity and hands back a session token.
// There is no password for regular users; admin logins go through the
// placeholder credential check.
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Type     string `json:"type"`
		Email    string `json:"email" binding:"omitempty,email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Type == "" {
		input.Type = string(models.TypeUser)
	}

	user, err := ac.auth.Login(c.Request.Context(), models.UserType(input.Type), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := authUtils.GenerateToken(user.ID)
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	// For production, don't set domain to allow cross-origin cookies
	if environment == "production" {
		domain = ""
	}

	cookie := &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		MaxAge:   3600, // 1 hour
		Path:     "/",
		Domain:   domain,
		Secure:   environment == "production", // false for HTTP (dev), true for HTTPS (prod)
		HttpOnly: true,                        // still protect from JS access
		SameSite: http.SameSiteNoneMode,       // Required for cross-origin cookies in production
	}
	http.SetCookie(c.Writer, cookie)

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"type":  user.Type,
		"email": user.Email,
		"token": token,
	})
}

// Logout clears the auth_token cookie. Nothing else to tear down.
func (ac *AuthController) Logout(c *gin.Context) {
	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	c.SetCookie("auth_token", "", -1, "/", domain, environment == "production", true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me retrieves the authenticated user's record.
func (ac *AuthController) Me(c *gin.Context) {
	user, err := ac.auth.CurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"type":      user.Type,
		"email":     user.Email,
		"createdAt": user.CreatedAt,
	})
}
