package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/utils"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
	Role     string
}

// AuthResult is what a successful register or login hands back.
type AuthResult struct {
	Token string
	User  *models.User
}

type AuthService struct {
	users    UserStore
	resolver *IdentityResolver
	tokens   *utils.TokenIssuer
	hasher   *utils.PasswordHasher
	revoked  *utils.RevocationList
}

func NewAuthService(users UserStore, resolver *IdentityResolver, tokens *utils.TokenIssuer, hasher *utils.PasswordHasher, revoked *utils.RevocationList) *AuthService {
	return &AuthService{
		users:    users,
		resolver: resolver,
		tokens:   tokens,
		hasher:   hasher,
		revoked:  revoked,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.FullName = strings.TrimSpace(in.FullName)
	role, err := validateRegistration(&in)
	if err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &models.ConflictError{Field: "email", Message: "email is already taken"}
	}
	taken, err = s.users.ExistsByPhone(ctx, in.Phone)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &models.ConflictError{Field: "phone", Message: "phone number is already taken"}
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hashed,
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	utils.LoggerFromContext(ctx).WithField("user_id", user.ID).Info("User registered")
	return s.issue(user)
}

func validateRegistration(in *RegisterInput) (string, error) {
	if _, err := mail.ParseAddress(in.Email); err != nil || strings.ContainsAny(in.Email, "<> ") {
		return "", models.NewValidationError("email", "valid email is required")
	}
	if len(in.Password) < 6 {
		return "", models.NewValidationError("password", "must be at least 6 characters")
	}
	if n := utf8.RuneCountInString(in.FullName); n < 2 || n > 100 {
		return "", models.NewValidationError("fullName", "must be between 2 and 100 characters")
	}
	if !phonePattern.MatchString(in.Phone) {
		return "", models.NewValidationError("phone", "must be 10 digits")
	}

	role := strings.ToUpper(strings.TrimSpace(in.Role))
	switch role {
	case "":
		return models.RoleCustomer, nil
	case models.RoleCustomer, models.RoleStaff, models.RoleChef, models.RoleAdmin:
		return role, nil
	}
	return "", models.NewValidationError("role", "unknown role %q", in.Role)
}

// Login accepts an email or phone number as identifier. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, models.NewValidationError("identifier", "email or phone is required")
	}

	user, err := s.resolver.Resolve(ctx, identifier)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Matches(password, user.Password) {
		utils.LoggerFromContext(ctx).WithField("user_id", user.ID).Warn("Login rejected")
		return nil, models.ErrInvalidCredentials
	}

	utils.LoggerFromContext(ctx).WithField("user_id", user.ID).Info("User logged in")
	return s.issue(user)
}

// Logout revokes token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if s.revoked == nil || token == "" {
		return
	}
	s.revoked.Revoke(token)
	utils.LoggerFromContext(ctx).Info("Token revoked")
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(utils.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
