package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/appshelf/appshelf/config"
	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrNotFound           = errors.New("user not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInactive           = errors.New("account is not active")
	ErrAlreadyAdmin       = errors.New("user is already an admin")
	ErrNotAdmin           = errors.New("user is not an admin")
	ErrLastAdmin          = errors.New("cannot remove the last admin")
)

type Service struct {
	store  *collection.Store[User]
	config *config.JWTConfig
	cost   int
}

func NewService(store *collection.Store[User], cfg *config.JWTConfig) *Service {
	return &Service{store: store, config: cfg, cost: bcrypt.DefaultCost}
}

func (s *Service) Store() *collection.Store[User] {
	return s.store
}

// User authentication
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	user, err := s.createUser(ctx, req.Email, req.Password, req.Name, RoleUser)
	if user == nil {
		return nil, err
	}

	token, tokenErr := s.generateToken(user)
	if tokenErr != nil {
		return nil, tokenErr
	}

	// err may be a persistence failure; the account exists either way.
	return &AuthResponse{Token: token, User: user.Profile()}, err
}

func (s *Service) createUser(ctx context.Context, email, password, name, role string) (*User, error) {
	if _, ok := s.findByEmail(email); ok {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Create(ctx, map[string]interface{}{
		"email":        email,
		"name":         name,
		"passwordHash": string(hash),
		"role":         role,
	})
	if errors.Is(err, collection.ErrConflict) {
		return nil, ErrUserExists
	}
	if user.ID == "" {
		return nil, err
	}
	return &user, err
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, ok := s.findByEmail(req.Email)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != StatusActive {
		return nil, ErrInactive
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: user.Profile()}, nil
}

// ForgotPassword only confirms the account exists; no mail is sent.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	if _, ok := s.findByEmail(email); !ok {
		return "", ErrNotFound
	}
	return "Password reset link sent to your email", nil
}

// Refresh issues a fresh token for an existing, active user.
func (s *Service) Refresh(ctx context.Context, userID string) (string, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.Status != StatusActive {
		return "", ErrInactive
	}
	return s.generateToken(user)
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*User, error) {
	user, err := s.store.Get(id)
	if errors.Is(err, collection.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) findByEmail(email string) (User, bool) {
	email = normalizeEmail(email)
	return s.store.Find(func(u *User) bool { return normalizeEmail(u.Email) == email })
}

func (s *Service) generateToken(user *User) (string, error) {
	claims := JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.ExpirationDuration())),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrUnauthorized
}

// User administration
func (s *Service) ListUsers(q collection.Query) collection.Page[*Profile] {
	page := s.store.Query(q)
	profiles := make([]*Profile, len(page.Items))
	for i := range page.Items {
		profiles[i] = page.Items[i].Profile()
	}
	return collection.Page[*Profile]{
		Items:   profiles,
		Total:   page.Total,
		Page:    page.Page,
		Limit:   page.Limit,
		HasMore: page.HasMore,
	}
}

func (s *Service) UpdateUser(ctx context.Context, id string, req *UpdateUserRequest) (*User, error) {
	patch := map[string]interface{}{}
	if req.Name != "" {
		patch["name"] = req.Name
	}
	if req.Avatar != "" {
		patch["avatar"] = req.Avatar
	}
	if req.Status != "" {
		if req.Status != StatusActive && req.Status != StatusSuspended {
			return nil, validation.New("status", "must be 'active' or 'suspended'")
		}
		if req.Status == StatusSuspended {
			if err := s.guardLastAdmin(id); err != nil {
				return nil, err
			}
		}
		patch["status"] = req.Status
	}

	return s.mapped(s.store.Update(ctx, id, patch))
}

func (s *Service) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrForbidden
	}
	if err := s.guardLastAdmin(id); err != nil {
		return err
	}

	err := s.store.Delete(ctx, id)
	if errors.Is(err, collection.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) Promote(ctx context.Context, id string) (*User, error) {
	return s.mapped(s.store.Mutate(ctx, id, func(u *User) error {
		if u.IsAdmin() {
			return ErrAlreadyAdmin
		}
		u.Role = RoleAdmin
		return nil
	}))
}

func (s *Service) Demote(ctx context.Context, id string) (*User, error) {
	if err := s.guardLastAdmin(id); err != nil {
		return nil, err
	}
	return s.mapped(s.store.Mutate(ctx, id, func(u *User) error {
		if !u.IsAdmin() {
			return ErrNotAdmin
		}
		u.Role = RoleUser
		return nil
	}))
}

// EnsureAdmin creates an admin account, or promotes the existing account
// with that email. created reports which one happened.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) (user *User, created bool, err error) {
	if existing, ok := s.findByEmail(email); ok {
		if existing.IsAdmin() {
			return &existing, false, nil
		}
		user, err = s.Promote(ctx, existing.ID)
		return user, false, err
	}

	user, err = s.createUser(ctx, email, password, name, RoleAdmin)
	return user, user != nil, err
}

// guardLastAdmin refuses to remove admin rights from the only active admin.
func (s *Service) guardLastAdmin(id string) error {
	target, err := s.store.Get(id)
	if err != nil || !target.IsAdmin() {
		return nil
	}
	admins := s.store.Filter(func(u *User) bool { return u.IsAdmin() && u.Status == StatusActive })
	if len(admins) <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *Service) mapped(user User, err error) (*User, error) {
	if errors.Is(err, collection.ErrNotFound) {
		return nil, ErrNotFound
	}
	if user.ID == "" {
		return nil, err
	}
	return &user, err
}
