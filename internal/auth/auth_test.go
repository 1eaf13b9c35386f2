package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-admin/internal/db"
	"github.com/ukydev/fleet-admin/internal/models"
)

// fakeRecords is an in-memory AuthRecords implementation.
type fakeRecords struct {
	records map[string]*models.AuthRecord
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{records: make(map[string]*models.AuthRecord)}
}

func (f *fakeRecords) List(ctx context.Context) ([]models.AuthRecord, error) {
	out := make([]models.AuthRecord, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeRecords) GetByUID(ctx context.Context, uid string) (*models.AuthRecord, error) {
	rec, ok := f.records[uid]
	if !ok {
		return nil, nil
	}
	copy := *rec
	return &copy, nil
}

func (f *fakeRecords) GetByEmail(ctx context.Context, email string) (*models.AuthRecord, error) {
	for _, rec := range f.records {
		if rec.Email == email {
			copy := *rec
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeRecords) Create(ctx context.Context, rec models.AuthRecord) error {
	f.records[rec.UID] = &rec
	return nil
}

func (f *fakeRecords) SetClaims(ctx context.Context, uid string, role models.Role, admin bool) error {
	rec, ok := f.records[uid]
	if !ok {
		return db.ErrNotFound
	}
	rec.Role = role
	rec.Admin = admin
	return nil
}

func (f *fakeRecords) RecordSignIn(ctx context.Context, uid string) error {
	rec, ok := f.records[uid]
	if !ok {
		return db.ErrNotFound
	}
	now := time.Now().UTC()
	rec.LastSignIn = &now
	return nil
}

// fakeMirror is an in-memory UserMirror implementation.
type fakeMirror struct {
	users map[string]models.User
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{users: make(map[string]models.User)}
}

func (f *fakeMirror) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeMirror) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeMirror) Upsert(ctx context.Context, u models.User) error {
	f.users[u.UID] = u
	return nil
}

func (f *fakeMirror) SetRole(ctx context.Context, uid string, role models.Role, admin bool) error {
	u := f.users[uid]
	u.UID = uid
	u.Role = role
	u.Admin = admin
	f.users[uid] = u
	return nil
}

func newTestService() (*Service, *fakeRecords, *fakeMirror) {
	records := newFakeRecords()
	mirror := newFakeMirror()
	return NewService("test-secret", time.Hour, records, mirror), records, mirror
}

func TestCreateUser_DualWrite(t *testing.T) {
	svc, records, mirror := newTestService()

	user, err := svc.CreateUser(context.Background(), models.CreateUserRequest{
		Email:       "ops@example.com",
		Password:    "password123",
		DisplayName: "Ops",
		Role:        models.RolePartner,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.UID)
	assert.Equal(t, models.RolePartner, user.Role)
	assert.False(t, user.Admin)

	rec, err := records.GetByUID(context.Background(), user.UID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.RolePartner, rec.Role)
	assert.NotEqual(t, "password123", rec.PasswordHash)

	mirrored, err := mirror.GetByUID(context.Background(), user.UID)
	require.NoError(t, err)
	require.NotNil(t, mirrored)
	assert.Equal(t, rec.Role, mirrored.Role)
	assert.Equal(t, rec.Admin, mirrored.Admin)
}

func TestCreateUser_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, models.CreateUserRequest{Email: "bad", Password: "password123"})
	assert.Error(t, err)

	_, err = svc.CreateUser(ctx, models.CreateUserRequest{Email: "a@b.co", Password: "short"})
	assert.Error(t, err)

	_, err = svc.CreateUser(ctx, models.CreateUserRequest{Email: "a@b.co", Password: "password123", Role: "superuser"})
	assert.Error(t, err)

	_, err = svc.CreateUser(ctx, models.CreateUserRequest{Email: "a@b.co", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, models.CreateUserRequest{Email: "a@b.co", Password: "password456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignIn_AndTokenClaims(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, models.CreateUserRequest{
		Email:    "admin@example.com",
		Password: "password123",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)

	token, user, err := svc.SignIn(ctx, "admin@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.UID, user.UID)

	rec, err := svc.records.GetByUID(ctx, created.UID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.NotNil(t, rec.LastSignIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.UID, claims.UID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.True(t, claims.Admin)

	_, _, err = svc.SignIn(ctx, "admin@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.SignIn(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewService("other-secret", time.Hour, newFakeRecords(), newFakeMirror())
	token, err := other.GenerateToken(&models.AuthRecord{UID: "u1", Email: "a@b.co", Role: models.RoleUser})
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   "u1",
		"email": "a@b.co",
		"role":  "user",
		"admin": false,
		"exp":   time.Now().Add(-time.Minute).Unix(),
		"iat":   time.Now().Add(-time.Hour).Unix(),
	})
	token, err = expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestUpdateUserRole_DualWriteAndRefreshVisibility(t *testing.T) {
	svc, records, mirror := newTestService()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, models.CreateUserRequest{
		Email:    "driver@example.com",
		Password: "password123",
		Role:     models.RoleUser,
	})
	require.NoError(t, err)

	oldToken, _, err := svc.SignIn(ctx, "driver@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateUserRole(ctx, user.UID, models.RoleAdmin))

	// Both sides of the dual write agree.
	rec, _ := records.GetByUID(ctx, user.UID)
	require.NotNil(t, rec)
	assert.Equal(t, models.RoleAdmin, rec.Role)
	assert.True(t, rec.Admin)

	mirrored, _ := mirror.GetByUID(ctx, user.UID)
	require.NotNil(t, mirrored)
	assert.Equal(t, models.RoleAdmin, mirrored.Role)
	assert.True(t, mirrored.Admin)

	// The old token still carries the old claims until a refresh.
	oldClaims, err := svc.ValidateToken(oldToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, oldClaims.Role)
	assert.False(t, oldClaims.Admin)

	refreshed, err := svc.RefreshToken(ctx, user.UID)
	require.NoError(t, err)
	newClaims, err := svc.ValidateToken(refreshed)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, newClaims.Role)
	assert.True(t, newClaims.Admin)
}

func TestUpdateUserRole_Errors(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	assert.Error(t, svc.UpdateUserRole(ctx, "u1", "superuser"))
	assert.ErrorIs(t, svc.UpdateUserRole(ctx, "missing", models.RoleAdmin), ErrUserNotFound)
}

func TestSyncUsers_Converges(t *testing.T) {
	svc, records, mirror := newTestService()
	ctx := context.Background()

	// Seed auth records directly, as if provisioned outside this service.
	for _, rec := range []models.AuthRecord{
		{UID: "u1", Email: "one@example.com", Role: models.RoleAdmin, Admin: true, CreatedAt: time.Now().UTC()},
		{UID: "u2", Email: "two@example.com", Role: models.RoleCustomer, CreatedAt: time.Now().UTC()},
		{UID: "u3", Email: "three@example.com", Role: models.RoleSubcontractor, CreatedAt: time.Now().UTC()},
	} {
		require.NoError(t, records.Create(ctx, rec))
	}

	// Mirror out of step: u2 drifted, u3 missing.
	require.NoError(t, mirror.Upsert(ctx, models.User{UID: "u2", Email: "two@example.com", Role: models.RoleAdmin, Admin: true}))

	n, err := svc.SyncUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, rec := range []struct {
		uid   string
		role  models.Role
		admin bool
	}{
		{"u1", models.RoleAdmin, true},
		{"u2", models.RoleCustomer, false},
		{"u3", models.RoleSubcontractor, false},
	} {
		u, err := mirror.GetByUID(ctx, rec.uid)
		require.NoError(t, err)
		require.NotNil(t, u, "mirror for %s", rec.uid)
		assert.Equal(t, rec.role, u.Role, "role for %s", rec.uid)
		assert.Equal(t, rec.admin, u.Admin, "admin flag for %s", rec.uid)
	}
}

func TestListUsers(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, models.CreateUserRequest{Email: "a@b.co", Password: "password123"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, models.CreateUserRequest{Email: "c@d.co", Password: "password123", Role: models.RoleAdmin})
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestPasswordHelpers(t *testing.T) {
	svc, _, _ := newTestService()

	hash, err := svc.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, svc.CheckPassword("password123", hash))
	assert.False(t, svc.CheckPassword("password124", hash))
}
