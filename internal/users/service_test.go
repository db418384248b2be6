package users_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rdq-api/internal/apperr"
	"rdq-api/internal/mocks"
	"rdq-api/internal/models"
	"rdq-api/internal/stores"
	"rdq-api/internal/user"
	"rdq-api/internal/users"
)

const goodPassword = "Str0ngPass!"

func newTestService(t *testing.T) (*users.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "users.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	notifier := new(mocks.Notifier)
	notifier.On("UserWelcome", mock.Anything).Maybe()

	svc := users.NewService(&stores.GormUserStore{DB: db}, user.BcryptHasher{}, notifier, zap.NewNop())
	return svc, db
}

func validCreateInput(email string) users.CreateInput {
	return users.CreateInput{
		Email:     email,
		FirstName: "Alice",
		LastName:  "Martin",
		Password:  goodPassword,
		Role:      models.RoleUser,
	}
}

func TestCreateNormalizesEmail(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Create(validCreateInput("  Alice.Martin@Corp.Test "))
	require.NoError(t, err)
	assert.Equal(t, "alice.martin@corp.test", u.Email)
	assert.True(t, u.Active)
	assert.NotEqual(t, goodPassword, u.PasswordHash)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(validCreateInput("alice@corp.test"))
	require.NoError(t, err)

	_, err = svc.Create(validCreateInput("alice@corp.test"))
	assert.Equal(t, apperr.CodeEmailExists, apperr.CodeOf(err))
}

func TestCreateRejectsWeakPassword(t *testing.T) {
	svc, _ := newTestService(t)

	for _, pw := range []string{"short1!", "alllowercase1!", "ALLUPPERCASE1!", "NoDigits!!", "NoSpecial1"} {
		in := validCreateInput("alice@corp.test")
		in.Password = pw
		_, err := svc.Create(in)
		assert.Equal(t, apperr.CodeWeakPassword, apperr.CodeOf(err), pw)
	}
}

func TestCreateWithUnknownManager(t *testing.T) {
	svc, _ := newTestService(t)

	in := validCreateInput("alice@corp.test")
	missing := uint(42)
	in.ManagerID = &missing
	_, err := svc.Create(in)
	assert.Equal(t, apperr.CodeUserNotFound, apperr.CodeOf(err))
}

func TestUpdateRejectsManagerCycle(t *testing.T) {
	svc, _ := newTestService(t)

	a, err := svc.Create(validCreateInput("a@corp.test"))
	require.NoError(t, err)
	b, err := svc.Create(validCreateInput("b@corp.test"))
	require.NoError(t, err)

	// a manages b.
	_, err = svc.Update(b.ID, users.UpdateInput{ManagerID: &a.ID})
	require.NoError(t, err)

	// b managing a would close the loop.
	_, err = svc.Update(a.ID, users.UpdateInput{ManagerID: &b.ID})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	// Nobody manages themselves.
	_, err = svc.Update(a.ID, users.UpdateInput{ManagerID: &a.ID})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestActivateDeactivate(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Create(validCreateInput("alice@corp.test"))
	require.NoError(t, err)

	u, err = svc.Deactivate(u.ID)
	require.NoError(t, err)
	assert.False(t, u.Active)

	active, err := svc.ListActive()
	require.NoError(t, err)
	assert.Empty(t, active)

	u, err = svc.Activate(u.ID)
	require.NoError(t, err)
	assert.True(t, u.Active)
}

func TestTeamReturnsDirectReports(t *testing.T) {
	svc, _ := newTestService(t)

	boss, err := svc.Create(validCreateInput("boss@corp.test"))
	require.NoError(t, err)

	in := validCreateInput("report@corp.test")
	in.ManagerID = &boss.ID
	report, err := svc.Create(in)
	require.NoError(t, err)

	_, err = svc.Create(validCreateInput("outsider@corp.test"))
	require.NoError(t, err)

	team, err := svc.Team(boss.ID)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, report.ID, team[0].ID)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Create(validCreateInput("alice@corp.test"))
	require.NoError(t, err)

	err = svc.ChangePassword(u.ID, "wrong-old", "NewStr0ng!")
	assert.Equal(t, apperr.CodeInvalidCredentials, apperr.CodeOf(err))

	err = svc.ChangePassword(u.ID, goodPassword, "weak")
	assert.Equal(t, apperr.CodeWeakPassword, apperr.CodeOf(err))

	require.NoError(t, svc.ChangePassword(u.ID, goodPassword, "NewStr0ng!"))

	hasher := user.BcryptHasher{}
	updated, err := svc.Get(u.ID)
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare([]byte(updated.PasswordHash), []byte("NewStr0ng!")))
}

func TestGetByEmailNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByEmail("nobody@corp.test")
	assert.Equal(t, apperr.CodeUserNotFound, apperr.CodeOf(err))
}
