package controllers

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogicum/blogicum/utils"
)

func userColumns() []string {
	return []string{
		"id", "username", "email", "first_name", "last_name",
		"password_hash", "created_at", "updated_at",
	}
}

func TestRegisterValidation(t *testing.T) {
	db, mock := newMockDB(t)

	router := newTestRouter()
	router.POST("/auth/registration", NewAuthController(db).Register)

	cases := []struct {
		name string
		form url.Values
		want string
	}{
		{"short username", url.Values{"username": {"a"}, "password": {"secret1"}, "confirm": {"secret1"}}, "username"},
		{"bad characters", url.Values{"username": {"has space"}, "password": {"secret1"}, "confirm": {"secret1"}}, "username"},
		{"short password", url.Values{"username": {"newuser"}, "password": {"abc"}, "confirm": {"abc"}}, "password"},
		{"mismatched confirm", url.Values{"username": {"newuser"}, "password": {"secret1"}, "confirm": {"secret2"}}, "confirm"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doForm(router, "/auth/registration", tc.form)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tc.want)
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterCreatesUserAndRedirects(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	router := newTestRouter()
	router.POST("/auth/registration", NewAuthController(db).Register)

	w := doForm(router, "/auth/registration", url.Values{
		"username": {"newuser"},
		"email":    {"new@example.com"},
		"password": {"secret1"},
		"confirm":  {"secret1"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(7, "newuser", "old@example.com", "", "", "x", now, now))

	router := newTestRouter()
	router.POST("/auth/registration", NewAuthController(db).Register)

	w := doForm(router, "/auth/registration", url.Values{
		"username": {"newuser"},
		"password": {"secret1"},
		"confirm":  {"secret1"},
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginIssuesTokenAndCookie(t *testing.T) {
	db, mock := newMockDB(t)

	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(7, "newuser", "new@example.com", "", "", hash, now, now))

	router := newTestRouter()
	router.POST("/auth/login", NewAuthController(db).Login)

	w := doForm(router, "/auth/login", url.Values{
		"username": {"newuser"},
		"password": {"secret1"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w.Body.Bytes())
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.UserID)
	assert.Equal(t, "newuser", claims.Username)

	assert.Contains(t, w.Header().Get("Set-Cookie"), "auth_token=")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock := newMockDB(t)

	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(7, "newuser", "new@example.com", "", "", hash, now, now))

	router := newTestRouter()
	router.POST("/auth/login", NewAuthController(db).Login)

	w := doForm(router, "/auth/login", url.Values{
		"username": {"newuser"},
		"password": {"wrong"},
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginUnknownUser(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	router := newTestRouter()
	router.POST("/auth/login", NewAuthController(db).Login)

	w := doForm(router, "/auth/login", url.Values{
		"username": {"ghost"},
		"password": {"whatever"},
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
