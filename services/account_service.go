package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/anjiri1684/quiz_platform/database"
	"github.com/anjiri1684/quiz_platform/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AccountStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role string) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

const DefaultTokenTTL = 72 * time.Hour

type RegisterInput struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type AccountService struct {
	base
	store    AccountStore
	secret   []byte
	tokenTTL time.Duration
}

func NewAccountService(store AccountStore, secret string, tokenTTL time.Duration, opts Options) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AccountService{base: newBase(opts), store: store, secret: []byte(secret), tokenTTL: tokenTTL}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) createUser(ctx context.Context, fullName, email, password, role string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: "failed to hash password", Err: err}
	}
	user := &models.User{
		FullName: strings.TrimSpace(fullName),
		Email:    normalizeEmail(email),
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, invalid("email already exists")
		}
		return nil, storeError(ctx, "create user", "user", err)
	}
	return user, nil
}

// Register creates a student account.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	return s.createUser(ctx, in.FullName, in.Email, in.Password, models.RoleStudent)
}

var errBadCredentials = newError(KindUnauthorized, "invalid email or password")

func (s *AccountService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	user, err := s.store.FindUserByEmail(ctx, in.Email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, storeError(ctx, "load user", "user", err)
	}
	if !user.IsActive || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, errBadCredentials
	}

	token, expiresAt, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// IssueToken signs an HS256 token carrying user_id, role and exp.
func (s *AccountService) IssueToken(user *models.User) (string, time.Time, error) {
	expiresAt := s.now().Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, &Error{Kind: KindUpstream, Message: "failed to sign token", Err: err}
	}
	return signed, expiresAt, nil
}

func (s *AccountService) Me(ctx context.Context, p Principal) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.store.FindUser(ctx, p.UserID)
	if err != nil {
		return nil, storeError(ctx, "load user", "user", err)
	}
	return user, nil
}

func (s *AccountService) ListUsers(ctx context.Context, p Principal) ([]models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if p.Role != models.RoleSuperTutor {
		return nil, forbidden("only super tutors can list users")
	}
	users, err := s.store.ListUsers(ctx)
	return users, storeError(ctx, "list users", "users", err)
}

// SetRole changes a user's role. Only super tutors may do this.
func (s *AccountService) SetRole(ctx context.Context, p Principal, userID uuid.UUID, role string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if p.Role != models.RoleSuperTutor {
		return nil, forbidden("only super tutors can change roles")
	}
	if !models.ValidRole(role) {
		return nil, invalid("unknown role %q", role)
	}
	if err := s.store.UpdateUserRole(ctx, userID, role); err != nil {
		return nil, storeError(ctx, "update role", "user", err)
	}
	user, err := s.store.FindUser(ctx, userID)
	if err != nil {
		return nil, storeError(ctx, "load user", "user", err)
	}
	return user, nil
}

// SeedSuperTutor creates the configured super tutor unless the email is
// already registered. An empty email or password is a no-op.
func (s *AccountService) SeedSuperTutor(ctx context.Context, fullName, email, password string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if email == "" || password == "" {
		return nil
	}
	_, err := s.store.FindUserByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return storeError(ctx, "load user", "user", err)
	}
	if _, err := s.createUser(ctx, fullName, email, password, models.RoleSuperTutor); err != nil {
		return err
	}
	log.Printf("✅ Seeded super tutor %s", normalizeEmail(email))
	return nil
}
