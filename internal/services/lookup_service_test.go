package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"buspass/internal/cache"
	"buspass/internal/domain"
	"buspass/internal/metrics"
	"buspass/internal/repositories"
	"buspass/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyByPhoneMatchesAnyAlias(t *testing.T) {
	db, mock := testutil.NewMock(t)
	svc := LookupService{Applicants: repositories.ApplicantRepository{DB: db}}

	// phone "111" and number "222" belong to the same applicant
	mock.ExpectQuery("FROM applicant_contacts").WithArgs("111").
		WillReturnRows(sqlmock.NewRows([]string{"applicant_id"}).AddRow(5))
	mock.ExpectQuery("FROM applicant_contacts").WithArgs("222").
		WillReturnRows(sqlmock.NewRows([]string{"applicant_id"}).AddRow(5))

	byPhone, ok, err := svc.VerifyByPhone(context.Background(), "111")
	require.NoError(t, err)
	require.True(t, ok)

	byNumber, ok, err := svc.VerifyByPhone(context.Background(), " 222 ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, byPhone, byNumber)
}

func TestVerifyByPhoneNotFound(t *testing.T) {
	db, mock := testutil.NewMock(t)
	m := metrics.New()
	svc := LookupService{Applicants: repositories.ApplicantRepository{DB: db}, Metrics: m}

	mock.ExpectQuery("FROM applicant_contacts").WithArgs("000").
		WillReturnRows(sqlmock.NewRows([]string{"applicant_id"}))

	_, ok, err := svc.VerifyByPhone(context.Background(), "000")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Lookups.WithLabelValues("phone", "not_found")))
}

func TestVerifyByPhoneStoreError(t *testing.T) {
	db, mock := testutil.NewMock(t)
	svc := LookupService{Applicants: repositories.ApplicantRepository{DB: db}}

	mock.ExpectQuery("FROM applicant_contacts").WillReturnError(errors.New("boom"))

	_, ok, err := svc.VerifyByPhone(context.Background(), "111")
	assert.False(t, ok)
	assert.True(t, domain.IsInternal(err))
}

func TestGetByIDRejectsMalformedID(t *testing.T) {
	svc := LookupService{}
	for _, raw := range []string{"abc", "", "-3", "0", "1.5"} {
		_, _, err := svc.GetByID(context.Background(), raw)
		var ve domain.ValidationError
		require.True(t, errors.As(err, &ve), raw)
		assert.Equal(t, "invalid_id_format", ve.Code)
	}
}

func TestGetByID(t *testing.T) {
	db, mock := testutil.NewMock(t)
	svc := LookupService{Applicants: repositories.ApplicantRepository{DB: db}}

	mock.ExpectQuery("FROM applicants a WHERE a.id = \\?").WithArgs(int64(7)).
		WillReturnRows(testutil.ApplicantRows(testutil.Applicant(7, "BP-12345678")))
	mock.ExpectQuery("FROM applicants a WHERE a.id = \\?").WithArgs(int64(8)).
		WillReturnRows(testutil.ApplicantRows())

	a, ok, err := svc.GetByID(context.Background(), "7")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "BP-12345678", a.PassID)

	_, ok, err = svc.GetByID(context.Background(), "8")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetByPassIDUsesCache(t *testing.T) {
	db, mock := testutil.NewMock(t)
	client, rmock := redismock.NewClientMock()
	m := metrics.New()
	svc := LookupService{
		Applicants: repositories.ApplicantRepository{DB: db},
		Cache:      cache.NewPassCache(client, time.Minute),
		Metrics:    m,
	}

	a := testutil.Applicant(3, "BP-55555555")
	raw, err := json.Marshal(a)
	require.NoError(t, err)

	rmock.ExpectGet(cache.Key(a.PassID)).RedisNil()
	mock.ExpectQuery("FROM applicants a WHERE a.pass_id = \\?").WithArgs(a.PassID).
		WillReturnRows(testutil.ApplicantRows(a))
	rmock.ExpectSet(cache.Key(a.PassID), string(raw), time.Minute).SetVal("OK")
	rmock.ExpectGet(cache.Key(a.PassID)).SetVal(string(raw))

	got, ok, err := svc.GetByPassID(context.Background(), a.PassID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)

	got, ok, err = svc.GetByPassID(context.Background(), a.PassID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.Name, got.Name)

	assert.NoError(t, rmock.ExpectationsWereMet())
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Lookups.WithLabelValues("pass_id", "cache_hit")))
}

func TestGetByPassIDNotFoundIsNotCached(t *testing.T) {
	db, mock := testutil.NewMock(t)
	client, rmock := redismock.NewClientMock()
	svc := LookupService{
		Applicants: repositories.ApplicantRepository{DB: db},
		Cache:      cache.NewPassCache(client, time.Minute),
	}

	rmock.ExpectGet(cache.Key("BP-00000000")).RedisNil()
	mock.ExpectQuery("FROM applicants a WHERE a.pass_id = \\?").WithArgs("BP-00000000").
		WillReturnRows(testutil.ApplicantRows())

	_, ok, err := svc.GetByPassID(context.Background(), "BP-00000000")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestGetByPassIDFallsThroughCacheError(t *testing.T) {
	db, mock := testutil.NewMock(t)
	client, rmock := redismock.NewClientMock()
	svc := LookupService{
		Applicants: repositories.ApplicantRepository{DB: db},
		Cache:      cache.NewPassCache(client, time.Minute),
	}
	a := testutil.Applicant(3, "BP-55555555")

	rmock.ExpectGet(cache.Key(a.PassID)).SetErr(errors.New("redis down"))
	mock.ExpectQuery("FROM applicants a WHERE a.pass_id = \\?").
		WillReturnRows(testutil.ApplicantRows(a))
	raw, _ := json.Marshal(a)
	rmock.ExpectSet(cache.Key(a.PassID), string(raw), time.Minute).SetErr(errors.New("redis down"))

	got, ok, err := svc.GetByPassID(context.Background(), a.PassID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.PassID, got.PassID)
}

func TestListNormalizesPaging(t *testing.T) {
	db, mock := testutil.NewMock(t)
	svc := LookupService{Applicants: repositories.ApplicantRepository{DB: db}}

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM applicants").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("ORDER BY a.id DESC LIMIT \\? OFFSET \\?").WithArgs(100, 0).
		WillReturnRows(testutil.ApplicantRows(testutil.Applicant(1, "BP-11111111")))

	items, page, err := svc.List(context.Background(), domain.Pagination{Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, domain.Pagination{Page: 1, PageSize: 100, Total: 1}, page)
}
