package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ukydev/fleet-admin/internal/db"
	"github.com/ukydev/fleet-admin/internal/models"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already exists")
)

// Service is the authentication/claims layer. It owns the auth records and
// keeps the users collection mirror consistent: every role write touches the
// auth record first, then the mirror, and SyncUsers reconciles the rest.
type Service struct {
	jwtSecret []byte
	tokenExp  time.Duration
	records   db.AuthRecords
	users     db.UserMirror
}

// NewService creates an authentication service. Secret and expiry come from
// configuration; stores are injected.
func NewService(secret string, tokenExp time.Duration, records db.AuthRecords, users db.UserMirror) *Service {
	if tokenExp <= 0 {
		tokenExp = 24 * time.Hour
	}
	return &Service{
		jwtSecret: []byte(secret),
		tokenExp:  tokenExp,
		records:   records,
		users:     users,
	}
}

// SignIn checks credentials and issues a token carrying the record's
// current claims.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, models.User, error) {
	rec, err := s.records.GetByEmail(ctx, email)
	if err != nil {
		return "", models.User{}, err
	}
	if rec == nil || !s.CheckPassword(password, rec.PasswordHash) {
		return "", models.User{}, ErrInvalidCredentials
	}

	if err := s.records.RecordSignIn(ctx, rec.UID); err != nil {
		return "", models.User{}, err
	}

	token, err := s.GenerateToken(rec)
	if err != nil {
		return "", models.User{}, err
	}
	return token, recordToUser(*rec), nil
}

// RefreshToken re-mints a token from the record's current claims. A role
// change only becomes visible to a client after this call.
func (s *Service) RefreshToken(ctx context.Context, uid string) (string, error) {
	rec, err := s.records.GetByUID(ctx, uid)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", ErrUserNotFound
	}
	return s.GenerateToken(rec)
}

// GenerateToken issues a JWT for an auth record.
func (s *Service) GenerateToken(rec *models.AuthRecord) (string, error) {
	claims := jwt.MapClaims{
		"uid":   rec.UID,
		"email": rec.Email,
		"role":  string(rec.Role),
		"admin": rec.Admin,
		"exp":   time.Now().Add(s.tokenExp).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a JWT and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*models.Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	admin, _ := claims["admin"].(bool)

	return &models.Claims{
		UID:   uid,
		Email: email,
		Role:  models.Role(roleStr),
		Admin: admin,
		Exp:   int64(exp),
	}, nil
}

// ListUsers lists all auth records as user values.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(records))
	for _, rec := range records {
		users = append(users, recordToUser(rec))
	}
	return users, nil
}

// CreateUser provisions an auth record and writes its mirror document.
func (s *Service) CreateUser(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	if err := s.ValidateEmail(req.Email); err != nil {
		return models.User{}, err
	}
	if err := s.ValidatePassword(req.Password); err != nil {
		return models.User{}, err
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.IsValidRole(role) {
		return models.User{}, errors.New("invalid role")
	}

	existing, err := s.records.GetByEmail(ctx, req.Email)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, ErrEmailTaken
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}

	rec := models.AuthRecord{
		UID:          uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Role:         role,
		Admin:        role == models.RoleAdmin,
		Providers:    []string{"password"},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return models.User{}, err
	}

	user := recordToUser(rec)
	if err := s.users.Upsert(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateUserRole sets the role claim on the auth record, then mirrors role
// and admin flag into the users collection. Auth is written first so that a
// mirror failure leaves the system recoverable by SyncUsers.
func (s *Service) UpdateUserRole(ctx context.Context, uid string, role models.Role) error {
	if !models.IsValidRole(role) {
		return errors.New("invalid role")
	}
	admin := role == models.RoleAdmin

	if err := s.records.SetClaims(ctx, uid, role, admin); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.users.SetRole(ctx, uid, role, admin)
}

// SyncUsers bulk-mirrors every auth record into the users collection and
// returns how many were written. After it runs, every mirror agrees with
// its auth record.
func (s *Service) SyncUsers(ctx context.Context) (int, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return 0, err
	}
	for i, rec := range records {
		if err := s.users.Upsert(ctx, recordToUser(rec)); err != nil {
			return i, err
		}
	}
	return len(records), nil
}

// HashPassword hashes a password using bcrypt.
func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword checks if a password matches a hash.
func (s *Service) CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword validates password strength.
func (s *Service) ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}

// ValidateEmail validates email format.
func (s *Service) ValidateEmail(email string) error {
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return errors.New("invalid email format")
	}
	return nil
}

func recordToUser(rec models.AuthRecord) models.User {
	created := rec.CreatedAt
	u := models.User{
		UID:         rec.UID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		PhotoURL:    rec.PhotoURL,
		Role:        rec.Role,
		Admin:       rec.Admin,
		Providers:   rec.Providers,
		LastSignIn:  rec.LastSignIn,
	}
	if !created.IsZero() {
		u.CreatedAt = &created
	}
	if u.Providers == nil {
		u.Providers = []string{}
	}
	return u
}
