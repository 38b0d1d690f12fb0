package controllers

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/blogicum/blogicum/models"
)

func commentColumns() []string {
	return []string{"id", "post_id", "author_id", "text", "created_at"}
}

func TestCreateCommentRedirectsToPost(t *testing.T) {
	db, mock := newMockDB(t)

	past := time.Now().Add(-time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(sqlmock.NewRows(postColumns()).
			AddRow(1, 3, 1, nil, "Post", "body", past, true, "", past, past))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `comments`").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectCommit()

	router := newTestRouter()
	router.POST("/posts/:id/comments", actorInjector(&models.Actor{ID: 5, Username: "reader"}), NewCommentController(db).CreateComment)

	w := doForm(router, "/posts/1/comments", url.Values{"text": {"nice one"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/posts/1", w.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommentEmptyTextNotPersisted(t *testing.T) {
	db, mock := newMockDB(t)

	past := time.Now().Add(-time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(sqlmock.NewRows(postColumns()).
			AddRow(1, 3, 1, nil, "Post", "body", past, true, "", past, past))

	router := newTestRouter()
	router.POST("/posts/:id/comments", actorInjector(&models.Actor{ID: 5, Username: "reader"}), NewCommentController(db).CreateComment)

	w := doForm(router, "/posts/1/comments", url.Values{"text": {"   "}})

	// still a redirect, but nothing was inserted
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/posts/1", w.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCommentOnMissingPostIs404(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `posts`").
		WillReturnRows(sqlmock.NewRows(postColumns()))

	router := newTestRouter()
	router.POST("/posts/:id/comments", actorInjector(&models.Actor{ID: 5, Username: "reader"}), NewCommentController(db).CreateComment)

	w := doForm(router, "/posts/99/comments", url.Values{"text": {"hello?"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCommentByNonAuthorIsForbidden(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `comments`").
		WillReturnRows(sqlmock.NewRows(commentColumns()).
			AddRow(21, 1, 5, "original", time.Now()))

	router := newTestRouter()
	router.POST("/posts/:id/comments/:comment_id/edit", actorInjector(&models.Actor{ID: 8, Username: "intruder"}), NewCommentController(db).UpdateComment)

	w := doForm(router, "/posts/1/comments/21/edit", url.Values{"text": {"rewritten"}})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCommentByAuthor(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `comments`").
		WillReturnRows(sqlmock.NewRows(commentColumns()).
			AddRow(21, 1, 5, "original", time.Now()))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `comments` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := newTestRouter()
	router.POST("/posts/:id/comments/:comment_id/edit", actorInjector(&models.Actor{ID: 5, Username: "reader"}), NewCommentController(db).UpdateComment)

	w := doForm(router, "/posts/1/comments/21/edit", url.Values{"text": {"revised"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/posts/1", w.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCommentByNonAuthorIsForbidden(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `comments`").
		WillReturnRows(sqlmock.NewRows(commentColumns()).
			AddRow(21, 1, 5, "original", time.Now()))

	router := newTestRouter()
	router.POST("/posts/:id/comments/:comment_id/delete", actorInjector(&models.Actor{ID: 8, Username: "intruder"}), NewCommentController(db).DeleteComment)

	w := doForm(router, "/posts/1/comments/21/delete", url.Values{})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCommentByAuthor(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `comments`").
		WillReturnRows(sqlmock.NewRows(commentColumns()).
			AddRow(21, 1, 5, "original", time.Now()))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `comments`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := newTestRouter()
	router.POST("/posts/:id/comments/:comment_id/delete", actorInjector(&models.Actor{ID: 5, Username: "reader"}), NewCommentController(db).DeleteComment)

	w := doForm(router, "/posts/1/comments/21/delete", url.Values{})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/posts/1", w.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentAddressedUnderWrongPostIs404(t *testing.T) {
	db, mock := newMockDB(t)

	// id and post_id must match together; the lookup comes back empty
	mock.ExpectQuery("SELECT (.+) FROM `comments`").
		WillReturnRows(sqlmock.NewRows(commentColumns()))

	router := newTestRouter()
	router.POST("/posts/:id/comments/:comment_id/delete", actorInjector(&models.Actor{ID: 5, Username: "reader"}), NewCommentController(db).DeleteComment)

	w := doForm(router, "/posts/2/comments/21/delete", url.Values{})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
