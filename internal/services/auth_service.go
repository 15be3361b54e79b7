package services

import (
	"context"
	"errors"
	"net/mail"
	"time"
	"unicode/utf8"

	"nightcity/internal/domain"
	"nightcity/internal/domain/models"
	"nightcity/internal/repositories"
	"nightcity/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type RegisterInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Country     string
	DateOfBirth time.Time
	Password    string
}

// Session is an authenticated user with a freshly issued token.
type Session struct {
	User      models.PublicUser `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type AuthService struct {
	Users      UserStore
	Tokens     TokenService
	BcryptCost int
	RequestID  string
}

func (s AuthService) cost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}

// Register creates an account with the default security level and signs it in.
func (s AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	u, err := normalizeRegistration(in)
	if err != nil {
		return Session{}, err
	}

	exists, err := s.Users.EmailExists(ctx, u.Email)
	if err != nil {
		return Session{}, domain.PersistenceError{Op: "register", Err: err}
	}
	if exists {
		return Session{}, domain.ConflictError{Resource: "user", Msg: "email already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return Session{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}
	u.PasswordHash = string(hash)

	id, err := s.Users.Create(ctx, &u)
	if errors.Is(err, repositories.ErrDuplicate) {
		return Session{}, domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
	}
	if err != nil {
		return Session{}, domain.PersistenceError{Op: "register", Err: err}
	}
	u.ID = id

	utils.LogEvent(s.RequestID, "auth", "register", "user registered", zap.Int64("user_id", id))
	return s.session(u)
}

// Login checks the password. Unknown email and wrong password are reported the same way.
func (s AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.Users.GetByEmail(ctx, utils.NormalizeEmail(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return Session{}, domain.UnauthenticatedError{Msg: "invalid credentials"}
	}
	if err != nil {
		return Session{}, domain.PersistenceError{Op: "login", Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, domain.UnauthenticatedError{Msg: "invalid credentials"}
	}

	utils.LogEvent(s.RequestID, "auth", "login", "user logged in", zap.Int64("user_id", u.ID))
	return s.session(u)
}

func (s AuthService) session(u models.User) (Session, error) {
	token, exp, err := s.Tokens.Issue(domain.Identity{UserID: u.ID, SecurityLevel: u.SecurityLevel})
	if err != nil {
		return Session{}, err
	}
	return Session{User: u.ToPublic(), Token: token, ExpiresAt: exp}, nil
}

func normalizeRegistration(in RegisterInput) (models.User, error) {
	u := models.User{
		FullName:      utils.NormalizeSpace(in.FullName),
		Email:         utils.NormalizeEmail(in.Email),
		PhoneNumber:   utils.TrimOrEmpty(in.PhoneNumber),
		Country:       utils.NormalizeSpace(in.Country),
		DateOfBirth:   calendarDay(in.DateOfBirth),
		SecurityLevel: models.DefaultSecurityLevel,
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"full_name", u.FullName, 100},
		{"email", u.Email, 100},
		{"phone_number", u.PhoneNumber, 20},
		{"country", u.Country, 50},
		{"password", in.Password, 100},
	}
	for _, f := range fields {
		if f.value == "" {
			return models.User{}, domain.ValidationError{Field: f.name, Msg: "is required"}
		}
		if utf8.RuneCountInString(f.value) > f.max {
			return models.User{}, domain.ValidationError{Field: f.name, Msg: "is too long"}
		}
	}
	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "is not a valid address", Err: err}
	}
	if in.DateOfBirth.IsZero() {
		return models.User{}, domain.ValidationError{Field: "date_of_birth", Msg: "is required"}
	}
	if !u.DateOfBirth.Before(utils.NowUTC()) {
		return models.User{}, domain.ValidationError{Field: "date_of_birth", Msg: "must be in the past"}
	}
	return u, nil
}
