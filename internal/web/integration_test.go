package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecopontos/internal/db"
	"ecopontos/internal/imagestore/local"
	"ecopontos/internal/service"
	"ecopontos/internal/store"
	"ecopontos/internal/suggest"
	"ecopontos/internal/web"
)

// minimalJPEG is 512 bytes with the JPEG magic header followed by zeros;
// http.DetectContentType identifies JPEG from the leading bytes.
var minimalJPEG = func() []byte {
	b := make([]byte, 512)
	b[0] = 0xFF
	b[1] = 0xD8
	b[2] = 0xFF
	b[3] = 0xE0
	return b
}()

type stubAnalyzer struct {
	titles []string
}

func (s *stubAnalyzer) Suggest(_ context.Context, r io.Reader, _ string, _ []string) ([]string, error) {
	_, _ = io.ReadAll(r)
	return s.titles, nil
}

func newTestServer(t *testing.T, analyzer suggest.Analyzer) *httptest.Server {
	t.Helper()
	database, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	images, err := local.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	points := store.NewPointStore(database)
	items := store.NewItemStore(database)
	logger := slog.Default()

	srv := httptest.NewServer(web.NewServer(
		service.NewRegistrationService(points, images, logger),
		service.NewQueryService(points, items, "http://localhost:8080"),
		service.NewSuggestionService(analyzer, items, logger),
		images,
		t.TempDir(),
		logger,
	))
	t.Cleanup(srv.Close)
	return srv
}

// postPointForm submits a multipart registration. imageData may be nil.
func postPointForm(t *testing.T, srv *httptest.Server, fields map[string]string, imageData []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageData != nil {
		part, err := mw.CreateFormFile("image", "front.jpg")
		require.NoError(t, err)
		_, err = part.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/points", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func validFields() map[string]string {
	return map[string]string{
		"name":      "Acme",
		"email":     "a@b.com",
		"whatsapp":  "5511999999999",
		"city":      "São Paulo",
		"county":    "SP",
		"latitude":  "-23.5",
		"longitude": "-46.6",
		"items":     "1,3",
	}
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestListItems(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/items")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []struct {
		ID       int64  `json:"id"`
		Title    string `json:"title"`
		ImageURL string `json:"imageUrl"`
	}
	decodeJSON(t, resp, &items)
	require.Len(t, items, 6)
	assert.Equal(t, "Lamps", items[0].Title)
	assert.Equal(t, "http://localhost:8080/assets/lamps.svg", items[0].ImageURL)
}

func TestRegisterAndFetchPoint(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := postPointForm(t, srv, validFields(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created service.PointView
	decodeJSON(t, resp, &created)
	assert.NotZero(t, created.ID)
	assert.Empty(t, created.ImageURL)
	assert.Equal(t, []service.ItemRef{{ID: 1, Title: "Lamps"}, {ID: 3, Title: "Papers"}}, created.Items)

	resp2, err := http.Get(fmt.Sprintf("%s/points/%d", srv.URL, created.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var fetched service.PointView
	decodeJSON(t, resp2, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Acme", fetched.Name)
	assert.Equal(t, "SP", fetched.County)
}

func TestRegisterWithImageServesUpload(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := postPointForm(t, srv, validFields(), minimalJPEG)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created service.PointView
	decodeJSON(t, resp, &created)
	require.NotEmpty(t, created.ImageURL)

	// The configured public base differs from the test server; fetch the key
	// through the test server instead.
	key := created.ImageURL[strings.LastIndex(created.ImageURL, "/")+1:]
	resp2, err := http.Get(srv.URL + "/uploads/" + key)
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Equal(t, "image/jpeg", resp2.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp2.Body)
	require.NoError(t, err)
	assert.Equal(t, minimalJPEG, data)
}

func TestRegisterValidationErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	fields := validFields()
	fields["email"] = "not-an-email"
	resp := postPointForm(t, srv, fields, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Errors []service.FieldError `json:"errors"`
	}
	decodeJSON(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "email", body.Errors[0].Field)
}

func TestRegisterRejectsNonImageUpload(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := postPointForm(t, srv, validFields(), []byte("definitely not an image, just text"))
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPointNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/points/999")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListPointsFiltered(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := postPointForm(t, srv, validFields(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	rj := validFields()
	rj["name"] = "Rio Sul"
	rj["city"] = "Rio de Janeiro"
	rj["county"] = "RJ"
	rj["items"] = "2"
	resp = postPointForm(t, srv, rj, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	var points []service.PointView

	resp, err := http.Get(srv.URL + "/points?county=SP")
	require.NoError(t, err)
	decodeJSON(t, resp, &points)
	require.Len(t, points, 1)
	assert.Equal(t, "Acme", points[0].Name)

	resp, err = http.Get(srv.URL + "/points?county=RJ&item=2")
	require.NoError(t, err)
	decodeJSON(t, resp, &points)
	require.Len(t, points, 1)
	assert.Equal(t, "Rio Sul", points[0].Name)

	resp, err = http.Get(srv.URL + "/points?county=SP&item=2")
	require.NoError(t, err)
	decodeJSON(t, resp, &points)
	assert.Empty(t, points)

	resp, err = http.Get(srv.URL + "/points?item=abc")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSuggestions(t *testing.T) {
	srv := newTestServer(t, &stubAnalyzer{titles: []string{"Batteries"}})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "front.jpg")
	require.NoError(t, err)
	_, err = part.Write(minimalJPEG)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/suggestions", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Items []service.ItemRef `json:"items"`
	}
	decodeJSON(t, resp, &body)
	require.Len(t, body.Items, 1)
	assert.Equal(t, int64(2), body.Items[0].ID)
}

func TestSuggestionsDisabled(t *testing.T) {
	srv := newTestServer(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "front.jpg")
	require.NoError(t, err)
	_, err = part.Write(minimalJPEG)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/suggestions", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
