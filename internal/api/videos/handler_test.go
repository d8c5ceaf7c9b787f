package videos

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"vidshelf/internal/app/http/middleware"
	"vidshelf/internal/domain/billing"
	"vidshelf/internal/domain/users"
	videodomain "vidshelf/internal/domain/videos"
	"vidshelf/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.NewDB(t)
	r := gin.New()
	g := r.Group("/videos", middleware.AuthMiddleware(), middleware.RequireActiveSubscription())
	g.GET("", ListVideos)
	g.POST("", CreateVideo)
	g.DELETE("", DeleteVideo)
	return db, r
}

func subscriber(t *testing.T, db *gorm.DB, email string) users.User {
	t.Helper()
	u := testutil.CreateUser(t, db, email, users.RoleUser)
	testutil.CreateSubscription(t, db, u.ID, "cus_"+email, billing.StatusActive)
	return u
}

func request(t *testing.T, r http.Handler, method, path, body string, u users.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testutil.Token(t, u))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndList(t *testing.T) {
	db, r := setup(t)
	u := subscriber(t, db, "a@example.com")

	w := request(t, r, http.MethodPost, "/videos", `{"url":"https://youtu.be/abc123","title":"  First  "}`, u)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var v videodomain.Video
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "abc123", v.ExternalID)
	assert.Equal(t, "First", v.Title)
	assert.Equal(t, u.ID, v.UserID)

	w = request(t, r, http.MethodPost, "/videos", `{"url":"https://www.youtube.com/watch?v=xyz789"}`, u)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, "xyz789", v.Title)

	w = request(t, r, http.MethodGet, "/videos", "", u)
	require.Equal(t, http.StatusOK, w.Code)
	var list []videodomain.Video
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "xyz789", list[0].ExternalID)
	assert.Equal(t, "abc123", list[1].ExternalID)
}

func TestListOnlyOwn(t *testing.T) {
	db, r := setup(t)
	a := subscriber(t, db, "a@example.com")
	b := subscriber(t, db, "b@example.com")

	require.Equal(t, http.StatusCreated, request(t, r, http.MethodPost, "/videos", `{"url":"https://youtu.be/abc123"}`, a).Code)

	w := request(t, r, http.MethodGet, "/videos", "", b)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateRejectsSameExternalID(t *testing.T) {
	db, r := setup(t)
	a := subscriber(t, db, "a@example.com")
	b := subscriber(t, db, "b@example.com")

	require.Equal(t, http.StatusCreated, request(t, r, http.MethodPost, "/videos", `{"url":"https://youtu.be/abc123"}`, a).Code)

	w := request(t, r, http.MethodPost, "/videos", `{"url":"https://www.youtube.com/watch?v=abc123"}`, a)
	assert.Equal(t, http.StatusConflict, w.Code)

	// uniqueness is global, not per owner
	w = request(t, r, http.MethodPost, "/videos", `{"url":"https://youtu.be/abc123"}`, b)
	assert.Equal(t, http.StatusConflict, w.Code)

	var n int64
	require.NoError(t, db.Model(&videodomain.Video{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCreateValidation(t *testing.T) {
	db, r := setup(t)
	u := subscriber(t, db, "a@example.com")

	for _, body := range []string{
		`{}`,
		`{"url":""}`,
		`{"url":"https://vimeo.com/12345"}`,
		`{"url":"not a url"}`,
		`not json`,
		`{"url":"https://youtu.be/abc123","title":"` + strings.Repeat("t", 256) + `"}`,
	} {
		w := request(t, r, http.MethodPost, "/videos", body, u)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestDelete(t *testing.T) {
	db, r := setup(t)
	a := subscriber(t, db, "a@example.com")
	b := subscriber(t, db, "b@example.com")

	w := request(t, r, http.MethodPost, "/videos", `{"url":"https://youtu.be/abc123"}`, a)
	require.Equal(t, http.StatusCreated, w.Code)
	var v videodomain.Video
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	path := "/videos?id=" + strconv.FormatUint(uint64(v.ID), 10)

	assert.Equal(t, http.StatusBadRequest, request(t, r, http.MethodDelete, "/videos", "", a).Code)
	assert.Equal(t, http.StatusBadRequest, request(t, r, http.MethodDelete, "/videos?id=abc", "", a).Code)
	assert.Equal(t, http.StatusNotFound, request(t, r, http.MethodDelete, path, "", b).Code)
	assert.Equal(t, http.StatusNotFound, request(t, r, http.MethodDelete, "/videos?id=9999", "", a).Code)

	assert.Equal(t, http.StatusOK, request(t, r, http.MethodDelete, path, "", a).Code)
	assert.Equal(t, http.StatusNotFound, request(t, r, http.MethodDelete, path, "", a).Code)
}

func TestRequiresActiveSubscription(t *testing.T) {
	db, r := setup(t)
	u := testutil.CreateUser(t, db, "a@example.com", users.RoleUser)
	testutil.CreateSubscription(t, db, u.ID, "cus_1", billing.StatusPastDue)

	w := request(t, r, http.MethodGet, "/videos", "", u)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = request(t, r, http.MethodPost, "/videos", `{"url":"https://youtu.be/abc123"}`, u)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
