package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sezalkc/tablease/internal/config"
	"github.com/sezalkc/tablease/internal/model"
	"github.com/sezalkc/tablease/internal/repository"
	"github.com/sezalkc/tablease/internal/utils"
)

// verifyTokenTTL is how long the signup verification link stays valid.
const verifyTokenTTL = 30 * time.Minute

// AuthHandler bundles dependencies for the access gate: signup with
// email verification, login, token refresh and logout.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Mail   *utils.Mailer
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, m *utils.Mailer) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Mail: m}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// Signup creates an unverified account and mails the verification
// link.  No tokens are issued until the account has been verified and
// logged in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}
	if !model.ValidRole(req.Role) {
		return fail(c, http.StatusBadRequest, "Invalid role")
	}

	token, err := utils.RandomHex(32)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	expires := time.Now().UTC().Add(verifyTokenTTL)
	if _, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, req.Role, token, expires, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrEmailExists {
			return fail(c, http.StatusConflict, "Email already registered")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	verifyURL := h.Cfg.FrontendURL + "/verify-email?token=" + token + "&email=" + url.QueryEscape(req.Email)
	if err := h.Mail.Send(req.Email, "Verify your TablEase account", utils.VerificationMail(verifyURL)); err != nil {
		// The account exists; the user can request help rather than the
		// signup failing outright.
		log.Printf("auth: verification mail to %s failed: %v", req.Email, err)
	}

	return respond(c, http.StatusCreated, "Signup successful. Please verify your email.", nil)
}

// VerifyEmail consumes the mailed link: token and email arrive as query
// parameters.  The token is single use and expires after 30 minutes.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	email := c.QueryParam("email")
	if token == "" || email == "" {
		return fail(c, http.StatusBadRequest, "Invalid or expired verification link")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	verified, err := h.Users.VerifyEmail(ctx, email, token)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if !verified {
		return fail(c, http.StatusBadRequest, "Invalid or expired verification link")
	}
	return respond(c, http.StatusOK, "Email verified successfully. You can now login.", nil)
}

// Login verifies credentials and returns an access/refresh token pair.
// Accounts stay locked out until their email is verified.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusForbidden, "Invalid email or password")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if !u.IsEmailVerified {
		return fail(c, http.StatusForbidden, "Your email is not verified. Please check your inbox and click the verification link to activate your account.")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusForbidden, "Invalid email or password")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Name, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"message":      "Login successful",
		"jwtToken":     access.Token,
		"refreshToken": refresh.Raw,
		"name":         u.Name,
		"role":         u.Role,
		"email":        u.Email,
	})
}

// Refresh exchanges a valid refresh token for a new pair, rotating the
// old token out.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return fail(c, http.StatusBadRequest, "refreshToken is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Name, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"jwtToken":     access.Token,
		"refreshToken": refresh.Raw,
	})
}

// Logout invalidates the presented refresh token.  The access token
// simply ages out.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return fail(c, http.StatusBadRequest, "refreshToken is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(req.RefreshToken)); err != nil {
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated staff member's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "User not found")
		}
		return fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return respond(c, http.StatusOK, "Profile retrieved successfully", u)
}
