package handlers

import (
	"net/http"
	"time"

	"nightcity/internal/http/middleware"
	"nightcity/internal/services"
	"nightcity/internal/utils"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Country     string `json:"country"`
	DateOfBirth string `json:"date_of_birth"`
	Password    string `json:"password"`
}

// POST /api/auth/register
func (h Handler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	dob, ok := parseDateField(c, "date_of_birth", req.DateOfBirth)
	if !ok {
		return
	}

	sess, err := h.authService(c).Register(c.Request.Context(), services.RegisterInput{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Country:     req.Country,
		DateOfBirth: dob,
		Password:    req.Password,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.setTokenCookie(c, sess.Token, sess.ExpiresAt)
	c.JSON(http.StatusCreated, sess)
}

// POST /api/auth/login
func (h Handler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	sess, err := h.authService(c).Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.setTokenCookie(c, sess.Token, sess.ExpiresAt)
	c.JSON(http.StatusOK, sess)
}

// POST /api/auth/logout
func (h Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h Handler) setTokenCookie(c *gin.Context, token string, expires time.Time) {
	maxAge := int(expires.Sub(utils.NowUTC()).Seconds())
	if maxAge <= 0 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", h.CookieSecure, true)
}
