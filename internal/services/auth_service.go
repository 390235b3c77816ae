package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	intdb "buspass/internal/db"
	"buspass/internal/domain"
	"buspass/internal/domain/models"
	"buspass/internal/repositories"
	"buspass/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// ErrInvalidCredentials is returned for an unknown login or a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid email/username or password")

// Claims is the payload of counter staff tokens.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Users     repositories.UserRepository
	Secret    []byte
	RequestID string
	Now       func() time.Time
}

// Login checks the password of the user with the given email or username and issues a token.
func (s AuthService) Login(ctx context.Context, login, password string) (string, models.PublicUser, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", models.PublicUser{}, domain.ValidationError{Code: "missing_fields", Msg: "email and password are required"}
	}

	u, err := s.Users.FindByLogin(ctx, login)
	if domain.IsNotFound(err) {
		return "", models.PublicUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.PublicUser{}, domain.InternalError{Code: "login_failed", Msg: "failed to query user", Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		utils.LogEvent(s.RequestID, "auth", "login_rejected", "user_id", u.ID)
		return "", models.PublicUser{}, ErrInvalidCredentials
	}
	if u.Status != "" && u.Status != "active" {
		return "", models.PublicUser{}, ErrInvalidCredentials
	}

	token, err := s.Issue(u)
	if err != nil {
		return "", models.PublicUser{}, domain.InternalError{Code: "token_failed", Msg: "failed to sign token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", "user_id", u.ID, "role", u.Role)
	return token, u.ToPublic(), nil
}

// Issue signs an HS256 token for u.
func (s AuthService) Issue(u models.User) (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	now := s.now()
	claims := Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// Parse validates a signed token and returns its claims.
func (s AuthService) Parse(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, err
	}
	return claims, nil
}

// StaffInput is the body of a new counter staff account.
type StaffInput struct {
	Name     string
	Username string
	Email    string
	Phone    string
	Password string
	Role     string
}

// CreateStaff registers a counter or admin account. Duplicate email or username is a conflict.
func (s AuthService) CreateStaff(ctx context.Context, in StaffInput) (models.PublicUser, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if in.Email == "" || in.Username == "" || in.Password == "" {
		return models.PublicUser{}, domain.ValidationError{Code: "missing_fields", Msg: "username, email and password are required"}
	}
	if len(in.Password) < 8 {
		return models.PublicUser{}, domain.ValidationError{Code: "weak_password", Field: "password", Msg: "must be at least 8 characters"}
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	switch role {
	case "":
		role = models.RoleCounter
	case models.RoleCounter, models.RoleAdmin:
	default:
		return models.PublicUser{}, domain.ValidationError{Code: "invalid_role", Field: "role", Msg: "must be admin or counter"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.PublicUser{}, domain.InternalError{Code: "hash_failed", Msg: "failed to hash password", Err: err}
	}
	u := models.User{
		Name:         utils.NormalizeSpace(in.Name),
		Username:     in.Username,
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
	}
	if err := s.Users.Create(ctx, &u); err != nil {
		if intdb.IsDuplicateKey(err, intdb.IndexUserEmail) || intdb.IsDuplicateKey(err, intdb.IndexUserUsername) {
			return models.PublicUser{}, domain.ConflictError{Resource: "user", Msg: "email or username already registered", Err: err}
		}
		return models.PublicUser{}, domain.InternalError{Code: "create_user_failed", Msg: "failed to save user", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "staff_created", "user_id", u.ID, "role", u.Role)
	return u.ToPublic(), nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.Users.FindByLogin(ctx, email); err == nil {
		return nil
	} else if !domain.IsNotFound(err) {
		return fmt.Errorf("find admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	username := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		username = email[:i]
	}
	u := models.User{
		Name:         "Administrator",
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Status:       "active",
	}
	if err := s.Users.Create(ctx, &u); err != nil {
		if intdb.IsDuplicateKey(err, "") {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}
	utils.LogEvent(s.RequestID, "auth", "admin_seeded", "user_id", u.ID)
	return nil
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
