// Package auth adapts the identity provider onto the configured store:
// registration, credential checks, token issuance and the auth state cell
// consumed by embedded callers. The same adapter backs both the postgres
// and the offline backend; in offline mode the state-change events are
// synthesized from local sign-in/out.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/tradebench/backend/internal/models"
	"github.com/tradebench/backend/internal/store"
)

// Authenticator is the identity surface the auth Context and the HTTP
// handlers consume. *Adapter is the production implementation.
type Authenticator interface {
	SignUp(ctx context.Context, req models.RegisterRequest) Result
	SignIn(ctx context.Context, email, password string) Result
	SignOut() Result
	GetCurrentUser(ctx context.Context, token string) Result
	RefreshToken(ctx context.Context, token string) Result
	UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) Result
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) Result
	OnAuthStateChange(cb Callback) func()
}

type Adapter struct {
	profiles store.ProfileStore
	secret   []byte
	events   notifier
}

func NewAdapter(profiles store.ProfileStore, jwtSecret string) *Adapter {
	return &Adapter{profiles: profiles, secret: []byte(jwtSecret)}
}

func (a *Adapter) OnAuthStateChange(cb Callback) func() {
	return a.events.subscribe(cb)
}

func (a *Adapter) SignUp(ctx context.Context, req models.RegisterRequest) Result {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	// Input is rejected before any store call.
	if req.Email == "" || req.Password == "" {
		return failure(CodeValidation, "Email and password are required")
	}
	if req.FullName == "" {
		return failure(CodeValidation, "Full name is required")
	}
	if len(req.Password) < 8 {
		return failure(CodeValidation, "Password must be at least 8 characters")
	}
	if req.SelectedYear < models.MinYear || req.SelectedYear > models.MaxYear {
		return failure(CodeValidation, fmt.Sprintf("Selected year must be between %d and %d", models.MinYear, models.MaxYear))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return failure(CodeBackend, "Internal server error")
	}

	user, err := a.profiles.Create(ctx, &models.Profile{
		Email:            req.Email,
		FullName:         req.FullName,
		SelectedYear:     req.SelectedYear,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   strings.TrimSpace(req.SecurityAnswer),
		Password:         string(hashed),
	})
	if errors.Is(err, store.ErrConflict) {
		return failure(CodeConflict, "An account with this email already exists")
	}
	if err != nil {
		return failure(CodeBackend, "Failed to create account")
	}

	token, err := a.generateToken(user.ID)
	if err != nil {
		return failure(CodeBackend, "Failed to generate token")
	}

	a.events.fire(EventSignedIn, user)
	return Result{Success: true, User: user, Token: token}
}

func (a *Adapter) SignIn(ctx context.Context, email, password string) Result {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return failure(CodeValidation, "Email and password are required")
	}

	user, err := a.profiles.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return failure(CodeAuth, "Invalid email or password")
	}
	if err != nil {
		return failure(CodeBackend, "Internal server error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return failure(CodeAuth, "Invalid email or password")
	}

	token, err := a.generateToken(user.ID)
	if err != nil {
		return failure(CodeBackend, "Failed to generate token")
	}

	a.events.fire(EventSignedIn, user)
	return Result{Success: true, User: user, Token: token}
}

func (a *Adapter) SignOut() Result {
	a.events.fire(EventSignedOut, nil)
	return Result{Success: true}
}

// GetCurrentUser resolves a token to its profile.
func (a *Adapter) GetCurrentUser(ctx context.Context, token string) Result {
	userID, err := ParseToken(a.secret, token)
	if err != nil {
		return failure(CodeAuth, "Invalid or expired token")
	}
	user, err := a.profiles.GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return failure(CodeNotFound, "User not found")
	}
	if err != nil {
		return failure(CodeBackend, "Internal server error")
	}
	return Result{Success: true, User: user, Token: token}
}

// RefreshToken exchanges a still-valid token for a fresh one, pushing the
// expiry out another window.
func (a *Adapter) RefreshToken(ctx context.Context, token string) Result {
	res := a.GetCurrentUser(ctx, token)
	if !res.Success {
		return res
	}
	fresh, err := a.generateToken(res.User.ID)
	if err != nil {
		return failure(CodeBackend, "Failed to generate token")
	}
	a.events.fire(EventTokenRefreshed, res.User)
	return Result{Success: true, User: res.User, Token: fresh}
}

func (a *Adapter) UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) Result {
	if req.SelectedYear != nil && (*req.SelectedYear < models.MinYear || *req.SelectedYear > models.MaxYear) {
		return failure(CodeValidation, fmt.Sprintf("Selected year must be between %d and %d", models.MinYear, models.MaxYear))
	}
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return failure(CodeValidation, "Full name cannot be empty")
	}

	user, err := a.profiles.Update(ctx, userID, req)
	if errors.Is(err, store.ErrNotFound) {
		return failure(CodeNotFound, "User not found")
	}
	if err != nil {
		return failure(CodeBackend, "Failed to update profile")
	}
	return Result{Success: true, User: user}
}

// ResetPassword sets a new password after a security-answer check. The
// stored answer is compared case-insensitively.
func (a *Adapter) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) Result {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Answer == "" || req.NewPassword == "" {
		return failure(CodeValidation, "Email, answer, and new password are required")
	}
	if len(req.NewPassword) < 8 {
		return failure(CodeValidation, "Password must be at least 8 characters")
	}

	user, err := a.profiles.GetByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return failure(CodeNotFound, "No account with that email")
	}
	if err != nil {
		return failure(CodeBackend, "Internal server error")
	}

	if !strings.EqualFold(strings.TrimSpace(req.Answer), user.SecurityAnswer) {
		return failure(CodeAuth, "Security answer does not match")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return failure(CodeBackend, "Internal server error")
	}
	if err := a.profiles.SetPassword(ctx, user.ID, string(hashed)); err != nil {
		return failure(CodeBackend, "Failed to reset password")
	}
	return Result{Success: true, User: user}
}

func (a *Adapter) generateToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseToken validates an HS256 token and returns the user id claim.
func ParseToken(secret []byte, tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid claims")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("missing user_id claim")
	}
	return int64(userID), nil
}
