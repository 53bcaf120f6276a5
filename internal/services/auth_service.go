package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/arjunvsingh/CareerExchange/internal/apperrors"
	"github.com/arjunvsingh/CareerExchange/internal/models"
	"github.com/arjunvsingh/CareerExchange/internal/utils"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// bcrypt rejects anything longer.
	maxPasswordBytes = 72
)

var validate = validator.New()

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// Session is an authenticated user together with a freshly signed token.
type Session struct {
	User      models.User
	Token     string
	ExpiresIn time.Duration
}

// AuthService is the credential store behind register, login and the auth gate.
type AuthService struct {
	DB         *sql.DB
	Tokens     *utils.TokenManager
	BcryptCost int
}

func NewAuthService(db *sql.DB, tokens *utils.TokenManager, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{DB: db, Tokens: tokens, BcryptCost: bcryptCost}
}

const userColumns = `id, name, email, role, created_at, updated_at`

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	switch {
	case in.Name == "":
		return nil, apperrors.Validation("name is required")
	case in.Email == "":
		return nil, apperrors.Validation("email is required")
	case validate.Var(in.Email, "email") != nil:
		return nil, apperrors.Validation("email must be a valid email address")
	case in.Password == "":
		return nil, apperrors.Validation("password is required")
	case len(in.Password) < minPasswordLength:
		return nil, apperrors.Validation("password must be at least %d characters", minPasswordLength)
	case len(in.Password) > maxPasswordBytes:
		return nil, apperrors.Validation("password must be at most %d bytes", maxPasswordBytes)
	case in.Role == "":
		return nil, apperrors.Validation("role is required")
	case !in.Role.Valid():
		return nil, apperrors.Validation("role must be employer or applicant")
	}

	hashedPassword, err := utils.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, apperrors.Internal("Error processing password", err)
	}

	var user models.User
	var role string
	err = s.DB.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		in.Name, in.Email, hashedPassword, string(in.Role),
	).Scan(&user.ID, &user.Name, &user.Email, &role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		err = apperrors.FromStore(err, "User not found", "Error creating user")
		if apperrors.KindOf(err) == apperrors.KindConflict {
			return nil, apperrors.Conflict("Email already registered")
		}
		return nil, err
	}
	user.Role = models.Role(role)

	log.WithFields(log.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered")
	return s.newSession(user)
}

// Login checks credentials. Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	var user models.User
	var role string
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}
	if err != nil {
		return nil, apperrors.Internal("Error during login", err)
	}
	user.Role = models.Role(role)

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		log.WithField("user_id", user.ID).Warn("Login rejected: wrong password")
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}

	return s.newSession(user)
}

// Authenticate resolves a bearer token to the stored user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.Tokens.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthenticated("Invalid token")
	}

	user, err := s.GetUser(ctx, claims.UserID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.Unauthenticated("User not found")
		}
		return nil, err
	}
	return user, nil
}

// VerifyToken reports whether token is currently valid without touching the database.
func (s *AuthService) VerifyToken(token string) (*utils.Claims, bool) {
	claims, err := s.Tokens.ValidateToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (s *AuthService) GetUser(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	var role string
	err := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Name, &user.Email, &role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, apperrors.FromStore(err, "User not found", "Error retrieving user")
	}
	user.Role = models.Role(role)
	return &user, nil
}

func (s *AuthService) newSession(user models.User) (*Session, error) {
	token, err := s.Tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal("Error generating token", err)
	}
	return &Session{User: user, Token: token, ExpiresIn: s.Tokens.TTL()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
