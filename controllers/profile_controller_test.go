package controllers

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogicum/blogicum/models"
)

func TestGetProfileListsDraftsToo(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now()
	past := now.Add(-time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(2, "writer", "w@example.com", "", "", "x", now, now))
	mock.ExpectQuery("SELECT count(.+) FROM `posts`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(sqlmock.NewRows(postColumns()).
			AddRow(6, 2, 1, nil, "Draft", "body", past, false, "", past, past).
			AddRow(4, 2, 1, nil, "Published", "body", past.Add(-time.Hour), true, "", past, past))
	mock.ExpectQuery("SELECT (.+) FROM `categories`").
		WillReturnRows(sqlmock.NewRows(categoryColumns()).
			AddRow(1, "Travel", "about travel", "travel", true))

	router := newTestRouter()
	router.GET("/profile/:username", NewProfileController(db).GetProfile)

	w := doGET(router, "/profile/writer")

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w.Body.Bytes())
	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)

	// the public profile never exposes the email address
	profile, ok := data["profile"].(map[string]interface{})
	require.True(t, ok)
	assert.NotContains(t, profile, "email")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfileUnknownUserIs404(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	router := newTestRouter()
	router.GET("/profile/:username", NewProfileController(db).GetProfile)

	w := doGET(router, "/profile/ghost")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileRejectsTakenUsername(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(2, "writer", "w@example.com", "", "", "x", now, now))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(9, "taken", "t@example.com", "", "", "x", now, now))

	router := newTestRouter()
	router.POST("/profile/edit", actorInjector(&models.Actor{ID: 2, Username: "writer"}), NewProfileController(db).UpdateProfile)

	w := doForm(router, "/profile/edit", url.Values{"username": {"taken"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username already taken")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileRejectsMalformedUsername(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now()

	cases := []struct {
		name     string
		username string
	}{
		{"contains space", "has space"},
		{"contains markup", "<b>bold</b>"},
		{"too short", "a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock.ExpectQuery("SELECT (.+) FROM `users`").
				WillReturnRows(sqlmock.NewRows(userColumns()).
					AddRow(2, "writer", "w@example.com", "", "", "x", now, now))

			router := newTestRouter()
			router.POST("/profile/edit", actorInjector(&models.Actor{ID: 2, Username: "writer"}), NewProfileController(db).UpdateProfile)

			w := doForm(router, "/profile/edit", url.Values{"username": {tc.username}})

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "username")
		})
	}
	// no uniqueness lookup and no UPDATE may run for a rejected rename
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileRedirectsToProfile(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(2, "writer", "w@example.com", "", "", "x", now, now))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := newTestRouter()
	router.POST("/profile/edit", actorInjector(&models.Actor{ID: 2, Username: "writer"}), NewProfileController(db).UpdateProfile)

	w := doForm(router, "/profile/edit", url.Values{
		"first_name": {"Ann"},
		"last_name":  {"Writer"},
	})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile/writer", w.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
