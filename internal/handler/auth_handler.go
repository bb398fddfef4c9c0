package handler

import (
	"errors"
	"net/http"
	"time"

	"property-service/internal/middleware"
	"property-service/internal/model"
	"property-service/internal/repository"
	"property-service/internal/validation"
	"property-service/pkg/logger"
	"property-service/prometheus"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the user repository the auth handlers need.
type UserStore interface {
	Create(user *model.User) error
	FindByEmail(email string) (*model.User, error)
	EmailTaken(email string) (bool, error)
}

// TokenIssuer issues and revokes bearer tokens.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
	Revoke(raw string) error
}

// RegisterRequest carries the registration payload.
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,min=2,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// LoginRequest carries the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler serves registration, login, logout, and profile lookups.
type AuthHandler struct {
	users    UserStore
	tokens   TokenIssuer
	validate *validator.Validate
}

func NewAuthHandler(users UserStore, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users:    users,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// Register creates a user and issues a token.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAuthAttempt()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	if err := h.validate.Struct(&req); err != nil {
		return validationFailed(c, registerErrors(err))
	}

	taken, err := h.users.EmailTaken(req.Email)
	if err != nil {
		log.Error("failed to check email uniqueness", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed"})
	}
	if taken {
		errs := validation.Errors{}
		errs.Add("email", "This email is already registered.")
		return validationFailed(c, errs)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed"})
	}

	user := model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := h.users.Create(&user); err != nil {
		log.Error("failed to create user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed"})
	}

	tok, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Registration failed"})
	}
	prometheus.IncreaseActiveTokens()

	log.Info("user registered", zap.String("email", user.Email))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user": echo.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
		"token":      tok,
		"token_type": "Bearer",
	})
}

// Login verifies credentials and issues a token. The response never reveals
// whether the email or the password was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAuthAttempt()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Error("failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	if err := h.validate.Struct(&req); err != nil {
		return validationFailed(c, loginErrors(err))
	}

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("login with unknown email", zap.String("email", req.Email))
			prometheus.RecordAuthError("user_not_found")
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		log.Error("failed to look up user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login failed"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}

	tok, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Login failed"})
	}
	prometheus.IncreaseActiveTokens()

	log.Info("user logged in", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user": echo.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
		"token":      tok,
		"token_type": "Bearer",
	})
}

// Logout revokes the token that authenticated this request.
func (h *AuthHandler) Logout(c echo.Context) error {
	log := logger.FromContext(c)

	raw, _ := c.Get("token").(string)
	if err := h.tokens.Revoke(raw); err != nil {
		log.Error("failed to revoke token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Logout failed"})
	}
	prometheus.DecreaseActiveTokens()

	log.Info("user logged out")
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthenticated."})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": echo.Map{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"created_at": user.CreatedAt.Format(time.RFC3339),
		},
	})
}

// registerErrors translates validator failures on the registration payload
// into the itemized per-field error map.
func registerErrors(err error) validation.Errors {
	errs := validation.Errors{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("request", "The given data was invalid.")
		return errs
	}
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "Name":
			switch fe.Tag() {
			case "required":
				errs.Add("name", "The name field is required.")
			case "min":
				errs.Add("name", "The name must be at least 2 characters.")
			case "max":
				errs.Add("name", "The name cannot exceed 255 characters.")
			}
		case "Email":
			switch fe.Tag() {
			case "required":
				errs.Add("email", "The email field is required.")
			default:
				errs.Add("email", "Please provide a valid email address.")
			}
		case "Password":
			switch fe.Tag() {
			case "required":
				errs.Add("password", "The password field is required.")
			case "min":
				errs.Add("password", "The password must be at least 8 characters.")
			}
		case "PasswordConfirmation":
			errs.Add("password_confirmation", "The password confirmation does not match.")
		}
	}
	return errs
}

// loginErrors translates validator failures on the login payload.
func loginErrors(err error) validation.Errors {
	errs := validation.Errors{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("request", "The given data was invalid.")
		return errs
	}
	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "Email":
			if fe.Tag() == "required" {
				errs.Add("email", "The email field is required.")
			} else {
				errs.Add("email", "Please provide a valid email address.")
			}
		case "Password":
			errs.Add("password", "The password field is required.")
		}
	}
	return errs
}
