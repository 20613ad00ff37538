package router

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func quietRouter() *Router {
	r := New()
	r.Logger = log.New(io.Discard, "", 0)
	return r
}

func reply(body string) HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { io.WriteString(w, body) }
}

func do(r *Router, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRoutesMatchInRegistrationOrder(t *testing.T) {
	r := quietRouter()
	r.GET("/api/v1/reports", reply("list"))
	r.GET("/api/v1/reports/*/errors", reply("errors"))
	r.GET("/api/v1/reports/*/result", reply("result"))
	r.GET("/api/v1/reports/*", reply("one"))

	cases := map[string]string{
		"/api/v1/reports":            "list",
		"/api/v1/reports/abc":        "one",
		"/api/v1/reports/abc/errors": "errors",
		"/api/v1/reports/abc/result": "result",
	}
	for path, want := range cases {
		for i := 0; i < 5; i++ {
			rec := do(r, http.MethodGet, path)
			assert.Equal(t, http.StatusOK, rec.Code, path)
			assert.Equal(t, want, rec.Body.String(), path)
		}
	}
}

func TestTrailingWildcardNeedsASegment(t *testing.T) {
	r := quietRouter()
	r.GET("/files/*", reply("file"))

	assert.Equal(t, "file", do(r, http.MethodGet, "/files/a/b").Body.String())
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/files").Code)
}

func TestMethodNotAllowed(t *testing.T) {
	r := quietRouter()
	r.POST("/api/v1/reports", reply("created"))
	r.GET("/api/v1/reports/*", reply("one"))

	assert.Equal(t, http.StatusMethodNotAllowed, do(r, http.MethodGet, "/api/v1/reports").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(r, http.MethodDelete, "/api/v1/reports/x").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/nope").Code)
}

func TestHandlePrefix(t *testing.T) {
	r := quietRouter()
	r.GET("/swagger/special", reply("route"))
	r.Handle("/swagger/", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, "prefix:"+req.URL.Path)
	}))

	assert.Equal(t, "prefix:/swagger/index.html", do(r, http.MethodGet, "/swagger/index.html").Body.String())
	assert.Equal(t, "route", do(r, http.MethodGet, "/swagger/special").Body.String())
}

func TestReRegisterReplacesHandler(t *testing.T) {
	r := quietRouter()
	r.GET("/x/*", reply("old"))
	r.GET("/x/*", reply("new"))

	assert.Equal(t, "new", do(r, http.MethodGet, "/x/1").Body.String())
	assert.Len(t, r.ordered, 1)
}

func TestMethodHelpers(t *testing.T) {
	r := quietRouter()
	r.PUT("/items/*", reply("put"))
	r.PATCH("/items/*", reply("patch"))
	r.DELETE("/items/*", reply("delete"))

	assert.Equal(t, "put", do(r, http.MethodPut, "/items/1").Body.String())
	assert.Equal(t, "patch", do(r, http.MethodPatch, "/items/1").Body.String())
	assert.Equal(t, "delete", do(r, http.MethodDelete, "/items/1").Body.String())
	assert.Equal(t, http.StatusMethodNotAllowed, do(r, http.MethodGet, "/items/1").Code)

	assert.Len(t, r.Routes(), 3)
	assert.Contains(t, r.Routes(), "PATCH:/items/*")
	assert.Equal(t, map[string]bool{"/items/*": true}, r.Paths())
}

func TestMatchWildcardRoute(t *testing.T) {
	assert.True(t, matchWildcardRoute("/a/1/b", "/a/*/b"))
	assert.False(t, matchWildcardRoute("/a/1/c", "/a/*/b"))
	assert.False(t, matchWildcardRoute("/a//b", "/a/*/b"))
	assert.True(t, matchWildcardRoute("/a/1/b/2", "/a/*/b/*"))
}

func TestPathSegment(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/abc/errors", nil)
	assert.Equal(t, "abc", PathSegment(req, 3))
	assert.Equal(t, "", PathSegment(req, 9))
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, colorGreen, statusColor(201))
	assert.Equal(t, colorYellow, statusColor(422))
	assert.Equal(t, colorRed, statusColor(500))
}
