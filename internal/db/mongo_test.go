package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ukydev/fleet-admin/internal/models"
	"github.com/ukydev/fleet-admin/internal/mq"
)

func TestConnectMongo_BadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := ConnectMongo(ctx, "mongodb://bad:uri")
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

// testDatabase connects to the MongoDB named by MONGO_URI and hands back a
// dropped-clean test database with indexes in place. Tests that call it are
// integration tests and skip when no MongoDB is reachable.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Skipf("mongo unavailable: %v, skipping integration test", err)
	}

	database := client.Database("fleetadmin_test")
	require.NoError(t, database.Drop(ctx))
	require.NoError(t, EnsureIndexes(ctx, database))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		database.Drop(ctx)
		client.Disconnect(ctx)
	})
	return database
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleTruck(plate string) models.Truck {
	return models.Truck{
		Ownership:      models.OwnershipOwn,
		LicensePlate:   plate,
		Province:       "กรุงเทพมหานคร",
		VIN:            "MP1FRR90HJT000001",
		EngineNumber:   "4HK1123456",
		Status:         models.TruckStatusActive,
		Brand:          "Isuzu",
		Model:          "FRR90",
		Year:           "2019",
		Driver:         "Somsak",
		Seats:          intPtr(3),
		EngineCapacity: floatPtr(5193),
		FuelCapacity:   floatPtr(200),
		MaxLoadWeight:  floatPtr(9500),
		Photos:         []string{"front.jpg"},
		Insurance: models.Insurance{
			PolicyNumber: "POL-001",
			Company:      "Viriyah",
			Premium:      floatPtr(25000),
			StartDate:    datePtr(2024, time.June, 15),
			ExpiryDate:   datePtr(2025, time.June, 15),
			Documents:    []string{},
		},
	}
}

func TestTruckStore_CreateGetRoundTrip(t *testing.T) {
	database := testDatabase(t)
	store := NewTruckStore(database, mq.NewMemoryBus())
	ctx := context.Background()

	in := sampleTruck("กก-1234")
	id, err := store.Create(ctx, in, "admin-uid")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, in.Ownership, got.Ownership)
	assert.Equal(t, in.LicensePlate, got.LicensePlate)
	assert.Equal(t, in.Province, got.Province)
	assert.Equal(t, in.VIN, got.VIN)
	assert.Equal(t, in.EngineNumber, got.EngineNumber)
	assert.Equal(t, in.Status, got.Status)
	assert.Equal(t, in.Brand, got.Brand)
	assert.Equal(t, in.Model, got.Model)
	assert.Equal(t, in.Year, got.Year)
	assert.Equal(t, in.Driver, got.Driver)
	require.NotNil(t, got.Seats)
	assert.Equal(t, 3, *got.Seats)
	require.NotNil(t, got.EngineCapacity)
	assert.Equal(t, 5193.0, *got.EngineCapacity)
	assert.Equal(t, []string{"front.jpg"}, got.Photos)
	assert.Equal(t, "POL-001", got.Insurance.PolicyNumber)
	require.NotNil(t, got.Insurance.Premium)
	assert.Equal(t, 25000.0, *got.Insurance.Premium)
	require.NotNil(t, got.Insurance.StartDate)
	assert.True(t, got.Insurance.StartDate.Equal(*in.Insurance.StartDate))
	require.NotNil(t, got.Insurance.ExpiryDate)
	assert.True(t, got.Insurance.ExpiryDate.Equal(*in.Insurance.ExpiryDate))

	assert.Equal(t, "admin-uid", got.CreatedBy)
	require.NotNil(t, got.CreatedAt)
	require.NotNil(t, got.UpdatedAt)
}

func TestTruckStore_DuplicatePlate(t *testing.T) {
	database := testDatabase(t)
	store := NewTruckStore(database, mq.NewMemoryBus())
	ctx := context.Background()

	_, err := store.Create(ctx, sampleTruck("ขข-42"), "admin-uid")
	require.NoError(t, err)

	_, err = store.Create(ctx, sampleTruck("ขข-42"), "admin-uid")
	assert.ErrorIs(t, err, ErrDuplicatePlate)

	// A different plate goes through.
	_, err = store.Create(ctx, sampleTruck("ขข-43"), "admin-uid")
	assert.NoError(t, err)
}

func TestTruckStore_UpdateRefreshesTimestamp(t *testing.T) {
	database := testDatabase(t)
	store := NewTruckStore(database, mq.NewMemoryBus())
	ctx := context.Background()

	in := sampleTruck("คค-99")
	id, err := store.Create(ctx, in, "admin-uid")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	in.Status = models.TruckStatusMaintenance
	in.Driver = "Prasert"
	require.NoError(t, store.Update(ctx, id, in))

	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.TruckStatusMaintenance, got.Status)
	assert.Equal(t, "Prasert", got.Driver)
	require.NotNil(t, got.CreatedAt)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, got.UpdatedAt.After(*got.CreatedAt), "updated_at should advance past created_at")
	assert.Equal(t, "admin-uid", got.CreatedBy, "update must not touch created_by")

	// The insurance dates ride along on every update, never get wiped.
	require.NotNil(t, got.Insurance.StartDate)
	assert.True(t, got.Insurance.StartDate.Equal(*in.Insurance.StartDate))
	require.NotNil(t, got.Insurance.ExpiryDate)
	assert.True(t, got.Insurance.ExpiryDate.Equal(*in.Insurance.ExpiryDate))
}

func TestTruckStore_UpdateMissing(t *testing.T) {
	database := testDatabase(t)
	store := NewTruckStore(database, mq.NewMemoryBus())

	err := store.Update(context.Background(), "65b2f0a1c9e77d0012345678", sampleTruck("งง-1"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTruckStore_GetByID_BadID(t *testing.T) {
	// Unparseable ids cannot match any document and resolve to absence
	// without touching the collection.
	store := &TruckStore{}
	got, err := store.GetByID(context.Background(), "not-a-hex-id")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestTruckStore_ListNewestFirst(t *testing.T) {
	database := testDatabase(t)
	store := NewTruckStore(database, mq.NewMemoryBus())
	ctx := context.Background()

	first, err := store.Create(ctx, sampleTruck("จจ-1"), "admin-uid")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := store.Create(ctx, sampleTruck("จจ-2"), "admin-uid")
	require.NoError(t, err)

	trucks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, trucks, 2)
	assert.Equal(t, second, trucks[0].ID)
	assert.Equal(t, first, trucks[1].ID)
}

func TestTruckStore_Watch(t *testing.T) {
	database := testDatabase(t)
	store := NewTruckStore(database, mq.NewMemoryBus())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := store.Create(ctx, sampleTruck("ฉฉ-1"), "admin-uid")
	require.NoError(t, err)

	ch, err := store.Watch(ctx)
	require.NoError(t, err)

	// Initial snapshot.
	select {
	case trucks := <-ch:
		require.Len(t, trucks, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	_, err = store.Create(ctx, sampleTruck("ฉฉ-2"), "admin-uid")
	require.NoError(t, err)

	select {
	case trucks := <-ch:
		require.Len(t, trucks, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change snapshot")
	}

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should close after cancel")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestSubcontractorStore_Lifecycle(t *testing.T) {
	database := testDatabase(t)
	store := NewSubcontractorStore(database)
	ctx := context.Background()

	sc := models.Subcontractor{
		Type:          models.SubcontractorCompany,
		Name:          "ขนส่งไทยรุ่งเรือง",
		ContactPerson: "Wichai",
		Phone:         "021234567",
		Email:         "contact@thairung.co.th",
		TaxID:         "0105536112014",
		Status:        models.SubcontractorStatusActive,
		Documents:     []string{},
	}

	id, err := store.Create(ctx, sc)
	require.NoError(t, err)

	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sc.Name, got.Name)
	assert.Equal(t, sc.Type, got.Type)
	assert.Equal(t, sc.TaxID, got.TaxID)
	require.NotNil(t, got.CreatedAt)

	got.Phone = "029999999"
	got.Status = models.SubcontractorStatusSuspended
	require.NoError(t, store.Update(ctx, id, *got))

	updated, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "029999999", updated.Phone)
	assert.Equal(t, models.SubcontractorStatusSuspended, updated.Status)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.Delete(ctx, id))
	gone, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, store.Delete(ctx, id), ErrNotFound)
}

func TestUserStore_MirrorRoundTrip(t *testing.T) {
	database := testDatabase(t)
	store := NewUserStore(database)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	u := models.User{
		UID:         "uid-1",
		Email:       "ops@example.com",
		DisplayName: "Ops",
		Role:        models.RolePartner,
		Providers:   []string{"password"},
		CreatedAt:   &now,
	}
	require.NoError(t, store.Upsert(ctx, u))

	got, err := store.GetByUID(ctx, "uid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, models.RolePartner, got.Role)
	assert.False(t, got.Admin)

	// SetRole writes role and admin flag together, upserting when absent.
	require.NoError(t, store.SetRole(ctx, "uid-1", models.RoleAdmin, true))
	got, err = store.GetByUID(ctx, "uid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleAdmin, got.Role)
	assert.True(t, got.Admin)

	missing, err := store.GetByUID(ctx, "uid-2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAuthRecordStore_Lifecycle(t *testing.T) {
	database := testDatabase(t)
	store := NewAuthRecordStore(database)
	ctx := context.Background()

	rec := models.AuthRecord{
		UID:          "uid-1",
		Email:        "admin@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         models.RoleAdmin,
		Admin:        true,
		Providers:    []string{"password"},
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.Create(ctx, rec))

	got, err := store.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "uid-1", got.UID)
	assert.Equal(t, rec.PasswordHash, got.PasswordHash)
	assert.True(t, got.Admin)

	require.NoError(t, store.SetClaims(ctx, "uid-1", models.RoleUser, false))
	got, err = store.GetByUID(ctx, "uid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleUser, got.Role)
	assert.False(t, got.Admin)

	assert.ErrorIs(t, store.SetClaims(ctx, "uid-404", models.RoleUser, false), ErrNotFound)

	require.NoError(t, store.RecordSignIn(ctx, "uid-1"))
	got, err = store.GetByUID(ctx, "uid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotNil(t, got.LastSignIn)

	// The unique email index rejects a second record for the same address.
	dup := rec
	dup.UID = "uid-2"
	assert.Error(t, store.Create(ctx, dup))
}

func TestWaitlistStore_Lifecycle(t *testing.T) {
	database := testDatabase(t)
	store := NewWaitlistStore(database)
	ctx := context.Background()

	id, err := store.Create(ctx, "interested@example.com")
	require.NoError(t, err)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "interested@example.com", entries[0].Email)
	assert.NotNil(t, entries[0].CreatedAt)

	require.NoError(t, store.Delete(ctx, id))
	entries, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorIs(t, store.Delete(ctx, id), ErrNotFound)
}
