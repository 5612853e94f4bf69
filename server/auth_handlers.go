package server

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/10srav/tasksaver/auth"
	"github.com/10srav/tasksaver/model"
	"github.com/10srav/tasksaver/store"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

// currentClaims extracts the verified JWT claims set by the auth middleware.
func currentClaims(c echo.Context) *auth.Claims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// currentUser loads the authenticated user's row. A token whose user no
// longer exists counts as no authenticated user.
func (s *Server) currentUser(c echo.Context) (*model.User, error) {
	claims := currentClaims(c)
	if claims == nil {
		return nil, auth.ErrInvalidToken
	}
	user, err := s.users.FindByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return user, nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) postRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "All fields are required")
	}
	if len(req.Name) < 2 || len(req.Name) > 50 {
		return fail(c, http.StatusBadRequest, "Name must be between 2 and 50 characters")
	}
	if !emailPattern.MatchString(req.Email) {
		return fail(c, http.StatusBadRequest, "Please enter a valid email")
	}
	if len(req.Password) < 6 {
		return fail(c, http.StatusBadRequest, "Password must be at least 6 characters")
	}

	ctx := c.Request().Context()
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return fail(c, http.StatusBadRequest, "User with this email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		c.Logger().Error("register lookup: ", err)
		return fail(c, http.StatusServiceUnavailable, "Database connection failed. Please try again later.")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.Logger().Error("hash password: ", err)
		return fail(c, http.StatusInternalServerError, "Registration failed. Please try again.")
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Preferences:  model.DefaultPreferences(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		c.Logger().Error("create user: ", err)
		return fail(c, http.StatusInternalServerError, "Registration failed. Please try again.")
	}

	return c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: "User registered successfully",
		User:    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) postLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required")
	}

	ctx := c.Request().Context()
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "Invalid email or password")
		}
		c.Logger().Error("login lookup: ", err)
		return fail(c, http.StatusServiceUnavailable, "Database connection failed. Please try again later.")
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	if err := s.users.TouchLastLogin(ctx, user, time.Now()); err != nil {
		c.Logger().Error("touch last login: ", err)
	}

	token, err := auth.IssueToken(s.conf.Auth.JWTSecret, user, s.tokenTTL())
	if err != nil {
		c.Logger().Error("issue token: ", err)
		return fail(c, http.StatusInternalServerError, "Login failed. Please try again.")
	}

	c.SetCookie(auth.NewCookie(token, s.conf.Auth.CookieDomain, s.conf.Auth.CookieSecure, s.tokenTTL()))

	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}

func (s *Server) postLogout(c echo.Context) error {
	c.SetCookie(auth.ClearCookie(s.conf.Auth.CookieDomain, s.conf.Auth.CookieSecure))
	return c.JSON(http.StatusOK, Response{Success: true, Message: "Logged out"})
}

func (s *Server) getProfile(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	return c.JSON(http.StatusOK, Response{Success: true, User: user})
}

type profileRequest struct {
	Name            *string            `json:"name"`
	Bio             *string            `json:"bio"`
	Avatar          *string            `json:"avatar"`
	Preferences     *model.Preferences `json:"preferences"`
	CurrentPassword string             `json:"currentPassword"`
	NewPassword     string             `json:"newPassword"`
}

func (s *Server) putProfile(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		if len(*req.Bio) > 500 {
			return fail(c, http.StatusBadRequest, "Bio cannot exceed 500 characters")
		}
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}

	// Password change subflow: requires the current password, enforces the
	// minimum length, re-hashes.
	if req.CurrentPassword != "" && req.NewPassword != "" {
		if !auth.VerifyPassword(req.CurrentPassword, user.PasswordHash) {
			return fail(c, http.StatusBadRequest, "Current password is incorrect")
		}
		if len(req.NewPassword) < 6 {
			return fail(c, http.StatusBadRequest, "New password must be at least 6 characters")
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			c.Logger().Error("hash password: ", err)
			return fail(c, http.StatusInternalServerError, "Failed to update profile")
		}
		user.PasswordHash = hash
	}

	if err := s.users.Save(c.Request().Context(), user); err != nil {
		c.Logger().Error("save profile: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to update profile")
	}

	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Profile updated successfully",
		User:    user,
	})
}
