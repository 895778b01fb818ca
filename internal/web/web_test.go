package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/freshrack/internal/api"
	"github.com/erazemk/freshrack/internal/client"
	"github.com/erazemk/freshrack/internal/db"
	"github.com/erazemk/freshrack/internal/expiry"
	"github.com/erazemk/freshrack/internal/model"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	web    *httptest.Server
	client *client.Client
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	now := func() time.Time { return testNow }

	apiServer := httptest.NewServer(api.NewRouter(api.Deps{
		DB:        db.NewTestDB(t),
		JWTSecret: "test-secret",
		Now:       now,
	}))
	t.Cleanup(apiServer.Close)

	c := client.New(apiServer.URL)
	router, err := NewRouter(c, false, time.Now)
	require.NoError(t, err)

	webServer := httptest.NewServer(router)
	t.Cleanup(webServer.Close)
	return &testEnv{web: webServer, client: c}
}

// browser returns an HTTP client that keeps cookies like a browser.
func browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func getPage(t *testing.T, hc *http.Client, url string) (int, string) {
	t.Helper()
	resp, err := hc.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func postForm(t *testing.T, hc *http.Client, url string, form url.Values) (int, string) {
	t.Helper()
	resp, err := hc.PostForm(url, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func registerInBrowser(t *testing.T, env *testEnv, hc *http.Client, name, email string) {
	t.Helper()
	status, _ := postForm(t, hc, env.web.URL+"/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {"Secret1"},
	})
	require.Equal(t, http.StatusOK, status)
}

func TestHomePageAnonymous(t *testing.T) {
	env := setupTestEnv(t)

	status, body := getPage(t, browser(t), env.web.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Nothing is about to expire.")
	assert.Contains(t, body, `href="/login"`)
	assert.Contains(t, body, "up to 3 days")
}

func TestRegisterAddAndManage(t *testing.T) {
	env := setupTestEnv(t)
	hc := browser(t)
	registerInBrowser(t, env, hc, "Ana", "ana@example.com")

	tomorrow := expiry.FormatDate(time.Now().AddDate(0, 0, 1))
	status, body := postForm(t, hc, env.web.URL+"/add-food", url.Values{
		"title":      {"Milk"},
		"category":   {"dairy"},
		"quantity":   {"2"},
		"expiryDate": {tomorrow},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "My items")
	assert.Contains(t, body, "Milk")
	assert.Contains(t, body, "Expires tomorrow")

	foods, err := env.client.ListFoods(t.Context(), client.FoodFilter{})
	require.NoError(t, err)
	require.Len(t, foods, 1)
	id := foods[0].ID

	status, body = getPage(t, hc, env.web.URL+"/food/"+id)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `action="/food/`+id+`/notes"`)

	status, body = postForm(t, hc, env.web.URL+"/food/"+id+"/notes", url.Values{"text": {"opened today"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "opened today")

	status, body = postForm(t, hc, env.web.URL+"/my-items/"+id, url.Values{
		"title":      {"Oat milk"},
		"category":   {"Beverages"},
		"quantity":   {"1"},
		"expiryDate": {tomorrow},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Item updated.")
	assert.Contains(t, body, "Oat milk")

	status, body = postForm(t, hc, env.web.URL+"/my-items/"+id+"/delete", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Item deleted.")

	status, _ = getPage(t, hc, env.web.URL+"/food/"+id)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAddFoodRejectsBadInput(t *testing.T) {
	env := setupTestEnv(t)
	hc := browser(t)
	registerInBrowser(t, env, hc, "Ana", "ana@example.com")

	status, body := postForm(t, hc, env.web.URL+"/add-food", url.Values{
		"title":      {"Milk"},
		"category":   {"Dairy"},
		"quantity":   {"1"},
		"expiryDate": {"someday"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "Enter a valid expiry date.")
	assert.Contains(t, body, `value="Milk"`)
}

func TestNoteFormOnlyForOwner(t *testing.T) {
	env := setupTestEnv(t)
	owner := browser(t)
	registerInBrowser(t, env, owner, "Ana", "ana@example.com")
	postForm(t, owner, env.web.URL+"/add-food", url.Values{
		"title":      {"Cheese"},
		"category":   {"Dairy"},
		"quantity":   {"1"},
		"expiryDate": {"2099-01-01"},
	})

	foods, err := env.client.ListFoods(t.Context(), client.FoodFilter{})
	require.NoError(t, err)
	require.Len(t, foods, 1)
	id := foods[0].ID

	other := browser(t)
	registerInBrowser(t, env, other, "Bo", "bo@example.com")

	_, body := getPage(t, other, env.web.URL+"/food/"+id)
	assert.Contains(t, body, "Cheese")
	assert.NotContains(t, body, `action="/food/`+id+`/notes"`)

	status, body := postForm(t, other, env.web.URL+"/food/"+id+"/notes", url.Values{"text": {"mine"}})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body, "You can only change items you own.")

	_, body = getPage(t, browser(t), env.web.URL+"/food/"+id)
	assert.NotContains(t, body, `action="/food/`+id+`/notes"`)
}

func TestLoginRequiredPagesRedirect(t *testing.T) {
	env := setupTestEnv(t)
	hc := browser(t)

	for _, path := range []string{"/add-food", "/my-items"} {
		status, body := getPage(t, hc, env.web.URL+path)
		assert.Equal(t, http.StatusOK, status, path)
		assert.Contains(t, body, `action="/login"`, path)
	}
}

func TestLoginAndLogout(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.client.Register(t.Context(), "Ana", "ana@example.com", "", "Secret1")
	require.NoError(t, err)

	hc := browser(t)
	status, body := postForm(t, hc, env.web.URL+"/login", url.Values{"email": {"ana@example.com"}, "password": {"bad"}})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "Wrong email or password.")

	status, body = postForm(t, hc, env.web.URL+"/login", url.Values{"email": {"ana@example.com"}, "password": {"Secret1"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Log out")

	status, body = postForm(t, hc, env.web.URL+"/logout", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `action="/login"`)

	_, body = getPage(t, hc, env.web.URL+"/")
	assert.NotContains(t, body, "Log out")
}

func TestNotFoundPage(t *testing.T) {
	env := setupTestEnv(t)

	status, body := getPage(t, browser(t), env.web.URL+"/no/such/page")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Page not found")

	status, _ = getPage(t, browser(t), env.web.URL+"/food/missing")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFridgeFilters(t *testing.T) {
	env := setupTestEnv(t)
	s, err := env.client.Register(t.Context(), "Ana", "ana@example.com", "", "Secret1")
	require.NoError(t, err)

	for _, in := range []client.FoodInput{
		{Title: "Milk", Category: model.CategoryDairy, Quantity: 1, ExpiryDate: "2099-01-01"},
		{Title: "Apples", Category: model.CategoryFruits, Quantity: 4, ExpiryDate: "2099-01-01"},
	} {
		_, err := env.client.CreateFood(t.Context(), s, in)
		require.NoError(t, err)
	}

	_, body := getPage(t, browser(t), env.web.URL+"/fridge?category=fruits")
	assert.Contains(t, body, "Apples")
	assert.NotContains(t, body, "Milk")

	_, body = getPage(t, browser(t), env.web.URL+"/fridge?search=MIL")
	assert.Contains(t, body, "Milk")
	assert.NotContains(t, body, "Apples")

	status, body := getPage(t, browser(t), env.web.URL+"/fridge?category=rocks")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "Unknown category: rocks")
	assert.NotContains(t, body, "Milk")
	assert.NotContains(t, body, "Apples")
}

func TestFoodViewInvalidDate(t *testing.T) {
	item := model.FoodItem{Title: "Mystery", ExpiryDate: "not-a-date", OwnerEmail: "ana@example.com"}
	v := newFoodView(testNow, item, expiry.DefaultPolicy(), client.Session{Token: "t", Email: "ana@example.com"})

	assert.Equal(t, InvalidDateLabel, v.Label)
	assert.False(t, v.Status.Valid())
	assert.NotEqual(t, expiry.Safe, v.Status)
	assert.True(t, v.CanModify)
}

func TestFoodViewClassifies(t *testing.T) {
	item := model.FoodItem{ExpiryDate: "2024-03-08"}
	v := newFoodView(testNow, item, expiry.DefaultPolicy(), client.Session{})

	assert.Equal(t, expiry.Expired, v.Status)
	assert.Equal(t, -2, v.Days)
	assert.Equal(t, "Expired 2 days ago", v.Label)
	assert.False(t, v.CanModify)
}

func TestSessionMiddleware(t *testing.T) {
	var got client.Session
	h := SessionMiddleware(time.Now)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetSession(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, got.LoggedIn())
	assert.True(t, strings.Contains(rec.Header().Get("Set-Cookie"), "Max-Age=0"))
}
