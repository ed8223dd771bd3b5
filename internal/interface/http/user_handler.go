package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	userapp "github.com/finchlabs/finch/internal/application"
	"github.com/finchlabs/finch/internal/interface/middleware"
	"github.com/finchlabs/finch/pkg/helpers"
	"github.com/finchlabs/finch/pkg/response"
	"github.com/finchlabs/finch/pkg/validation"
)

type UserHandler struct {
	Svc     *userapp.Service
	JWT     *helpers.JWTManager
	RDB     *redis.Client
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *userapp.Service, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, JWT: jwt, RDB: rdb, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

type tokenRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TTLSeconds int    `json:"ttl_seconds"`
}

// Register POST /api/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, userView(u), "registered", nil)
}

// Login POST /api/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, res, "login successful", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Refresh POST /api/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Logout POST /api/logout (auth required)
func (h *UserHandler) Logout(c *gin.Context) {
	if uid := c.GetString(middleware.CtxUserIDKey); uid != "" && h.RDB != nil {
		if err := h.RDB.Del(c.Request.Context(), helpers.KeySession(uid)).Err(); err != nil && h.Logger != nil {
			h.Logger.WithError(err).WithField("user_id", uid).Warn("session delete failed")
		}
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// IssueToken POST /api/tokens
//
// Mints a short-lived API token. The credential may come as email/password
// in the body or as an existing token via the Authorization header, but only
// a password credential is accepted here: a token must not beget another
// token, or a leaked one could keep itself alive forever.
func (h *UserHandler) IssueToken(c *gin.Context) {
	var req tokenRequest
	_ = c.ShouldBindJSON(&req)

	var cred userapp.Credential
	switch {
	case req.Email != "" || req.Password != "":
		cred = userapp.PasswordCredential{Email: req.Email, Password: req.Password}
	default:
		tok := bearerOrCookieToken(c)
		if tok == "" {
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		cred = userapp.TokenCredential{Value: tok}
	}

	u, method, err := h.Svc.ResolveCredential(c.Request.Context(), cred)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if method != userapp.AuthByPassword {
		response.Error[any](c, http.StatusUnauthorized, "cannot issue a token from a token", nil)
		return
	}

	token, exp, err := h.Svc.IssueAPIToken(u, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "token generation failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token, "expires_at": exp}, "token issued", nil)
}

// GetProfile GET /api/profile (auth required)
func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "profile", nil)
}

// GetUser GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "user", nil)
}

// UpdateProfile PUT /api/profile (auth required)
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, userapp.UpdateProfileInput{
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "profile updated", nil)
}

// UploadAvatar POST /api/profile/avatar (auth required, multipart)
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing avatar file", nil)
		return
	}
	f, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable avatar file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := file.Header.Get("Content-Type")
	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, f, file.Filename, contentType)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}

func bearerOrCookieToken(c *gin.Context) string {
	if tok, err := c.Cookie("access_token"); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
