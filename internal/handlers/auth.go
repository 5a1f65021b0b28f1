package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stocktrack/apiserver/internal/apperr"
	"github.com/stocktrack/apiserver/internal/services"
	"github.com/stocktrack/apiserver/types"
)

// AuthHandler provides JWT authentication endpoints.
type AuthHandler struct {
	userService *services.UserService
	secret      []byte
	tokenTTL    time.Duration
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		secret:      []byte(jwtSecret),
		tokenTTL:    tokenTTL,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, jwtSecret string, tokenTTL time.Duration) {
	handler := NewAuthHandler(userService, jwtSecret, tokenTTL)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
}

// RequireAuth constructs middleware that enforces a bearer token and
// resolves the token's user into the request context. Verification is
// stateless apart from the user-existence lookup.
func RequireAuth(userService *services.UserService, jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				writeFailure(w, http.StatusUnauthorized, "Access token required")
				return
			}

			claims, err := parseToken(tokenString, secret)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					writeFailure(w, http.StatusUnauthorized, "Token expired")
					return
				}
				writeFailure(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			user, err := userService.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if apperr.KindOf(err) == apperr.KindNotFound {
					writeFailure(w, http.StatusUnauthorized, "Invalid token - user not found")
					return
				}
				writeAppError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), contextUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	user, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", user)
}

// Login verifies credentials and returns a JWT with the public user view.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	user, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeAppError(w, err)
		return
	}

	token, err := issueToken(user, h.secret, h.tokenTTL)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", AuthResponse{Token: token, User: user})
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

// authClaims is the token payload: the user's id and username plus the
// standard expiry fields.
type authClaims struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func issueToken(user types.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := authClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseToken(tokenString string, secret []byte) (authClaims, error) {
	claims := authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return authClaims{}, err
	}
	if !token.Valid {
		return authClaims{}, errors.New("invalid token")
	}
	if claims.UserID < 1 {
		return authClaims{}, errors.New("missing subject")
	}
	return claims, nil
}

func bearerToken(r *http.Request) (string, bool) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", false
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
