package repositories

import (
	"context"
	"errors"
	"testing"

	"buspass/internal/domain"
	"buspass/internal/domain/models"
	"buspass/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicantCreateWritesContactAliases(t *testing.T) {
	db, mock := testutil.NewMock(t)
	repo := ApplicantRepository{DB: db}

	a := testutil.Applicant(0, "BP-12345678")
	a.Whatsapp = "9000000001"

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applicants").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO applicant_contacts").
		WithArgs(int64(42), "9876543210").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO applicant_contacts").
		WithArgs(int64(42), "9000000001").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), &a))
	assert.Equal(t, int64(42), a.ID)
}

func TestApplicantCreateRollsBackOnDuplicatePassID(t *testing.T) {
	db, mock := testutil.NewMock(t)
	repo := ApplicantRepository{DB: db}

	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'BP-12345678' for key 'applicants.uniq_pass_id'"}
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applicants").WillReturnError(dup)
	mock.ExpectRollback()

	a := testutil.Applicant(0, "BP-12345678")
	err := repo.Create(context.Background(), &a)
	require.Error(t, err)

	var me *mysql.MySQLError
	assert.True(t, errors.As(err, &me))
	assert.Zero(t, a.ID)
}

func TestApplicantFindIDByContact(t *testing.T) {
	db, mock := testutil.NewMock(t)
	repo := ApplicantRepository{DB: db}

	mock.ExpectQuery("SELECT applicant_id\\s+FROM applicant_contacts").
		WithArgs("222").
		WillReturnRows(sqlmock.NewRows([]string{"applicant_id"}).AddRow(7))
	mock.ExpectQuery("SELECT applicant_id\\s+FROM applicant_contacts").
		WithArgs("333").
		WillReturnRows(sqlmock.NewRows([]string{"applicant_id"}))

	id, err := repo.FindIDByContact(context.Background(), "222")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = repo.FindIDByContact(context.Background(), "333")
	assert.True(t, domain.IsNotFound(err))
}

func TestApplicantGetByPassID(t *testing.T) {
	db, mock := testutil.NewMock(t)
	repo := ApplicantRepository{DB: db}

	want := testutil.Applicant(3, "BP-87654321")
	mock.ExpectQuery("FROM applicants a WHERE a.pass_id = \\?").
		WithArgs("BP-87654321").
		WillReturnRows(testutil.ApplicantRows(want))
	mock.ExpectQuery("FROM applicants a WHERE a.pass_id = \\?").
		WithArgs("BP-11111111").
		WillReturnRows(testutil.ApplicantRows())

	got, err := repo.GetByPassID(context.Background(), "BP-87654321")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = repo.GetByPassID(context.Background(), "BP-11111111")
	assert.True(t, domain.IsNotFound(err))
}

func TestApplicantGetByIDPropagatesStoreErrors(t *testing.T) {
	db, mock := testutil.NewMock(t)
	repo := ApplicantRepository{DB: db}

	mock.ExpectQuery("FROM applicants a WHERE a.id = \\?").
		WithArgs(int64(9)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByID(context.Background(), 9)
	require.Error(t, err)
	assert.False(t, domain.IsNotFound(err))
}

func TestApplicantExists(t *testing.T) {
	db, mock := testutil.NewMock(t)
	repo := ApplicantRepository{DB: db}

	mock.ExpectQuery("SELECT 1 FROM applicants").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM applicants").WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := repo.Exists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApplicantList(t *testing.T) {
	db, mock := testutil.NewMock(t)
	repo := ApplicantRepository{DB: db}

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM applicants").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("ORDER BY a.id DESC LIMIT \\? OFFSET \\?").
		WithArgs(5, 5).
		WillReturnRows(testutil.ApplicantRows(testutil.Applicant(7, "BP-70000000"), testutil.Applicant(6, "BP-60000000")))

	page := domain.Pagination{Page: 2, PageSize: 5}
	list, total, err := repo.List(context.Background(), page)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, list, 2)
	assert.Equal(t, "BP-70000000", list[0].PassID)
}

func TestContactAliasesDeduplicate(t *testing.T) {
	a := models.Applicant{Phone: "1", Whatsapp: "1", Number: "2"}
	assert.Equal(t, []string{"1", "2"}, a.Contacts().Aliases())
}
