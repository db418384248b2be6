package stores_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rdq-api/internal/models"
	"rdq-api/internal/stores"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "store.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Rdq{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, managerID *uint) *models.User {
	t.Helper()
	u := &models.User{
		Email:        email,
		FirstName:    "Seed",
		LastName:     "User",
		PasswordHash: "x",
		Role:         models.RoleUser,
		Active:       true,
		ManagerID:    managerID,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedRdq(t *testing.T, store *stores.GormRdqStore, ownerID uint, status models.RdqStatus) *models.Rdq {
	t.Helper()
	r := &models.Rdq{
		Title:       "A seeded request title",
		Description: "A description long enough to satisfy the column constraints.",
		Type:        models.TypeMateriel,
		Priority:    models.PriorityLow,
		Status:      status,
		UserID:      ownerID,
	}
	require.NoError(t, store.Create(r))
	return r
}

func TestSaveVersionGuard(t *testing.T) {
	db := newTestDB(t)
	store := &stores.GormRdqStore{DB: db}
	owner := seedUser(t, db, "alice@corp.test", nil)

	r := seedRdq(t, store, owner.ID, models.StatusDraft)
	require.Equal(t, 1, r.Version)

	first, err := store.GetByID(r.ID)
	require.NoError(t, err)
	second, err := store.GetByID(r.ID)
	require.NoError(t, err)

	first.Title = "Updated by the first writer"
	require.NoError(t, store.Save(first))
	assert.Equal(t, 2, first.Version)

	// The second writer still holds version 1 and must lose.
	second.Title = "Updated by the second writer"
	err = store.Save(second)
	assert.ErrorIs(t, err, stores.ErrStaleVersion)
	assert.Equal(t, 1, second.Version)

	got, err := store.GetByID(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated by the first writer", got.Title)
	assert.Equal(t, 2, got.Version)
}

func TestSaveDoesNotTouchOwner(t *testing.T) {
	db := newTestDB(t)
	store := &stores.GormRdqStore{DB: db}
	owner := seedUser(t, db, "alice@corp.test", nil)
	other := seedUser(t, db, "bob@corp.test", nil)

	r := seedRdq(t, store, owner.ID, models.StatusDraft)

	loaded, err := store.GetByID(r.ID)
	require.NoError(t, err)
	loaded.UserID = other.ID
	require.NoError(t, store.Save(loaded))

	got, err := store.GetByID(r.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.UserID)
}

func TestDeleteVersionGuard(t *testing.T) {
	db := newTestDB(t)
	store := &stores.GormRdqStore{DB: db}
	owner := seedUser(t, db, "alice@corp.test", nil)

	r := seedRdq(t, store, owner.ID, models.StatusDraft)

	stale := *r
	stale.Version = 99
	assert.ErrorIs(t, store.Delete(&stale), stores.ErrStaleVersion)

	require.NoError(t, store.Delete(r))
	_, err := store.GetByID(r.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetByIDPreloadsManager(t *testing.T) {
	db := newTestDB(t)
	store := &stores.GormRdqStore{DB: db}
	manager := seedUser(t, db, "boss@corp.test", nil)
	owner := seedUser(t, db, "alice@corp.test", &manager.ID)

	r := seedRdq(t, store, owner.ID, models.StatusDraft)

	got, err := store.GetByID(r.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.Email, got.User.Email)
	require.NotNil(t, got.User.Manager)
	assert.Equal(t, manager.Email, got.User.Manager.Email)
}

func TestSearchFiltersAreConjunctive(t *testing.T) {
	db := newTestDB(t)
	store := &stores.GormRdqStore{DB: db}
	alice := seedUser(t, db, "alice@corp.test", nil)
	bob := seedUser(t, db, "bob@corp.test", nil)

	seedRdq(t, store, alice.ID, models.StatusDraft)
	target := seedRdq(t, store, alice.ID, models.StatusSubmitted)
	seedRdq(t, store, bob.ID, models.StatusSubmitted)

	submitted := models.StatusSubmitted
	rows, total, err := store.Search(stores.RdqSearchFilter{
		OwnerID: &alice.ID,
		Status:  &submitted,
	}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, target.ID, rows[0].ID)
}

func TestSearchPaginatesAndCounts(t *testing.T) {
	db := newTestDB(t)
	store := &stores.GormRdqStore{DB: db}
	owner := seedUser(t, db, "alice@corp.test", nil)

	for i := 0; i < 5; i++ {
		seedRdq(t, store, owner.ID, models.StatusDraft)
	}

	rows, total, err := store.Search(stores.RdqSearchFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, rows, 2)

	rows, total, err = store.Search(stores.RdqSearchFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, rows, 1)
}
