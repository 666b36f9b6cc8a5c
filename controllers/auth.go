package controllers

import (
	"net/http"
	"time"

	"funding-application-api/middleware"
	"funding-application-api/models"
	"funding-application-api/services"
	"funding-application-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

type AuthController struct {
	users       *services.UserService
	secret      []byte
	expireHours int
	now         func() time.Time
}

func NewAuthController(users *services.UserService, secret string, expireHours int) *AuthController {
	if expireHours <= 0 {
		expireHours = 24 // default 24 hours
	}
	return &AuthController{users: users, secret: []byte(secret), expireHours: expireHours, now: time.Now}
}

// Login handles user authentication
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := a.generateToken(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		User:    *user,
		Message: "Login successful",
	})
}

// generateToken creates JWT token
func (a *AuthController) generateToken(user models.User) (string, error) {
	now := a.now()
	claims := middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(a.expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}
