package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"buspass/internal/domain"
	"buspass/internal/domain/models"
	"buspass/internal/repositories"
	"buspass/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userColumns = []string{"id", "name", "username", "email", "phone", "password_hash", "role", "status"}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLoginIssuesToken(t *testing.T) {
	db, mock := testutil.NewMock(t)
	svc := AuthService{Users: repositories.UserRepository{DB: db}, Secret: []byte("s3cret")}

	mock.ExpectQuery("FROM users").WithArgs("counter1", "counter1").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(2, "Counter One", "counter1", "c1@example.com", "", hashed(t, "pw"), models.RoleCounter, "active"))

	token, user, err := svc.Login(context.Background(), "counter1", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCounter, user.Role)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(2), claims.UserID)
	assert.Equal(t, models.RoleCounter, claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db, mock := testutil.NewMock(t)
	svc := AuthService{Users: repositories.UserRepository{DB: db}, Secret: []byte("s3cret")}

	mock.ExpectQuery("FROM users").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(2, "Counter One", "counter1", "c1@example.com", "", hashed(t, "pw"), models.RoleCounter, "active"))
	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows(userColumns))

	_, _, err := svc.Login(context.Background(), "counter1", "nope")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, _, err = svc.Login(context.Background(), "ghost", "pw")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, _, err = svc.Login(context.Background(), "", "")
	assert.True(t, domain.IsValidation(err))
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := AuthService{Secret: []byte("s3cret"), Now: func() time.Time { return issued }}

	token, err := svc.Issue(models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	later := svc
	later.Now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = later.Parse(token)
	assert.Error(t, err)

	other := AuthService{Secret: []byte("other"), Now: svc.Now}
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestEnsureAdminSeedsOnce(t *testing.T) {
	db, mock := testutil.NewMock(t)
	svc := AuthService{Users: repositories.UserRepository{DB: db}}

	mock.ExpectQuery("FROM users").WithArgs("root@example.com", "root@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectExec("INSERT INTO users").
		WithArgs("Administrator", "root", "root@example.com", "", sqlmock.AnyArg(), models.RoleAdmin, "active").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("FROM users").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "Administrator", "root", "root@example.com", "", "x", models.RoleAdmin, "active"))

	require.NoError(t, svc.EnsureAdmin(context.Background(), "root@example.com", "pw"))
	require.NoError(t, svc.EnsureAdmin(context.Background(), "root@example.com", "pw"))
	require.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
}

func TestCreateStaff(t *testing.T) {
	db, mock := testutil.NewMock(t)
	svc := AuthService{Users: repositories.UserRepository{DB: db}}

	mock.ExpectExec("INSERT INTO users").
		WithArgs("Counter Two", "counter2", "c2@example.com", "", sqlmock.AnyArg(), models.RoleCounter, "active").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'c2@example.com' for key 'users.uniq_user_email'"})

	in := StaffInput{Name: "Counter  Two", Username: "counter2", Email: "c2@example.com", Password: "longenough"}
	u, err := svc.CreateStaff(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.ID)
	assert.Equal(t, models.RoleCounter, u.Role)

	_, err = svc.CreateStaff(context.Background(), in)
	assert.True(t, domain.IsConflict(err))

	_, err = svc.CreateStaff(context.Background(), StaffInput{Username: "x", Email: "x@y", Password: "short"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CreateStaff(context.Background(), StaffInput{Username: "x", Email: "x@y", Password: "longenough", Role: "owner"})
	assert.True(t, domain.IsValidation(err))
}
