package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vidshelf/config"
	"vidshelf/internal/app/http/middleware"
	"vidshelf/internal/domain/billing"
	"vidshelf/internal/domain/users"
	"vidshelf/internal/infra/ratelimit"
	"vidshelf/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	db := testutil.NewDB(t)
	u := testutil.CreateUser(t, db, "a@example.com", users.RoleUser)

	r := gin.New()
	r.GET("/p", middleware.AuthMiddleware(), okHandler)

	t.Run("missing", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/p", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Authorization header missing"}`, w.Body.String())
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Token abc")
		w := do(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": u.ID, "exp": time.Now().Add(time.Hour).Unix()})
		s, _ := tok.SignedString([]byte("other"))
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Bearer "+s)
		w := do(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid or expired token"}`, w.Body.String())
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("Authorization", "Bearer "+testutil.Token(t, u))
		w := do(r, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":`)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: testutil.Token(t, u)})
		w := do(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "u@example.com", users.RoleUser)
	admin := testutil.CreateUser(t, db, "a@example.com", users.RoleAdmin)

	r := gin.New()
	r.GET("/admin", middleware.AuthMiddleware(), middleware.RequireRole(users.RoleAdmin), okHandler)
	r.GET("/page", middleware.OptionalAuth(), middleware.RequireRoleOrRedirect(users.RoleAdmin, "/"), okHandler)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.Token(t, user))
	assert.Equal(t, http.StatusForbidden, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.Token(t, admin))
	assert.Equal(t, http.StatusOK, do(r, req).Code)

	w := do(r, httptest.NewRequest(http.MethodGet, "/page", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: testutil.Token(t, user)})
	assert.Equal(t, http.StatusFound, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: testutil.Token(t, admin)})
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestRequireActiveSubscription(t *testing.T) {
	db := testutil.NewDB(t)
	r := gin.New()
	r.GET("/videos", middleware.AuthMiddleware(), middleware.RequireActiveSubscription(), okHandler)

	cases := []struct {
		name   string
		status *billing.Status
		want   int
	}{
		{"no record", nil, http.StatusForbidden},
		{"inactive", ptr(billing.StatusInactive), http.StatusForbidden},
		{"past due", ptr(billing.StatusPastDue), http.StatusForbidden},
		{"canceled", ptr(billing.StatusCanceled), http.StatusForbidden},
		{"unpaid", ptr(billing.StatusUnpaid), http.StatusForbidden},
		{"active", ptr(billing.StatusActive), http.StatusOK},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := testutil.CreateUser(t, db, "user"+string(rune('a'+i))+"@example.com", users.RoleUser)
			if tc.status != nil {
				testutil.CreateSubscription(t, db, u.ID, "cus_"+tc.name, *tc.status)
			}
			req := httptest.NewRequest(http.MethodGet, "/videos", nil)
			req.Header.Set("Authorization", "Bearer "+testutil.Token(t, u))
			assert.Equal(t, tc.want, do(r, req).Code)
		})
	}
}

func ptr(s billing.Status) *billing.Status { return &s }

func TestRateLimit(t *testing.T) {
	store := ratelimit.NewMemoryStore(ratelimit.WithSweepInterval(0))
	t.Cleanup(store.Close)
	l, err := ratelimit.New(store, 2, time.Minute)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", middleware.RateLimit(l), okHandler)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(r, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	}
	w := do(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestSanitize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.APP_ENV = config.EnvDevelopment
	r := gin.New()
	r.POST("/register", middleware.SanitizeAndCleanInputMiddleware("password"), func(c *gin.Context) {
		var body map[string]string
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusOK, body)
	})

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"name":"<script>x</script>Bob","password":"<p>a1b2c3d4"}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Bob","password":"<p>a1b2c3d4"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{bad`))
	assert.Equal(t, http.StatusBadRequest, do(r, req).Code)
}
