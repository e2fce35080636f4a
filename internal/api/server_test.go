package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/banshee-data/synthset/internal/config"
	"github.com/banshee-data/synthset/internal/dataset"
)

func testServer(t *testing.T) (*Server, *dataset.Store) {
	t.Helper()
	store, err := dataset.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewServer(store, config.Empty(), nil), store
}

func postRecipe(t *testing.T, mux *http.ServeMux, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/sequences", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, "response: %s", rec.Body.String())
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateAndGetSequence(t *testing.T) {
	s, _ := testServer(t)
	mux := s.ServeMux()

	created := postRecipe(t, mux, `{
		"name": "api-test",
		"strategy": "standard",
		"params": {"distance": [10, 20, 30]}
	}`)
	id, _ := created["sequence_id"].(string)
	require.NotEmpty(t, id)
	require.EqualValues(t, 3, created["frame_count"])

	req := httptest.NewRequest(http.MethodGet, "/api/sequences/"+id, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var got dataset.SequenceRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "api-test", got.Name)
	require.Equal(t, 3, got.FrameCount)
}

func TestCreateSequenceBadRecipe(t *testing.T) {
	s, _ := testServer(t)
	mux := s.ServeMux()

	for name, body := range map[string]string{
		"malformed":        `{"strategy":`,
		"unknown strategy": `{"strategy": "spiral"}`,
		"list mismatch":    `{"strategy":"standard","params":{"distance":[1,2],"position":[[0,0,0],[1,0,0],[2,0,0]]}}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/sequences", strings.NewReader(body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestListSequences(t *testing.T) {
	s, _ := testServer(t)
	mux := s.ServeMux()

	req := httptest.NewRequest(http.MethodGet, "/api/sequences", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())

	postRecipe(t, mux, `{"strategy": "standard"}`)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sequences", nil))
	var recs []dataset.SequenceRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
}

func TestGetFrames(t *testing.T) {
	s, _ := testServer(t)
	mux := s.ServeMux()
	created := postRecipe(t, mux, `{"strategy":"standard","params":{"distance":[5,6]}}`)
	id := created["sequence_id"].(string)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sequences/"+id+"/frames", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var frames []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &frames))
	require.Len(t, frames, 2)
}

func TestGetSequenceNotFound(t *testing.T) {
	s, _ := testServer(t)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sequences/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreviewPage(t *testing.T) {
	s, _ := testServer(t)
	mux := s.ServeMux()
	created := postRecipe(t, mux, `{"strategy":"standard","params":{"distance":[10,20,30,40]}}`)
	id := created["sequence_id"].(string)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sequences/"+id+"/preview", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "<html")
}

func TestAnnotationsEndpoint(t *testing.T) {
	s, store := testServer(t)
	mux := s.ServeMux()
	created := postRecipe(t, mux, `{"strategy":"standard"}`)
	id := created["sequence_id"].(string)

	require.NoError(t, store.InsertAnnotation(&dataset.Annotation{
		SequenceID: id,
		FrameIndex: 0,
		Kind:       dataset.KindCentroids,
		Payload:    json.RawMessage(`{"rover":{"row":1,"col":2}}`),
	}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sequences/"+id+"/annotations?frame=0", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var anns []dataset.Annotation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &anns))
	require.Len(t, anns, 1)
	require.Equal(t, dataset.KindCentroids, anns[0].Kind)

	// Missing or negative frame parameter is rejected.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sequences/"+id+"/annotations", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfigEndpoint(t *testing.T) {
	s, _ := testServer(t)
	rec := httptest.NewRecorder()
	s.ServeMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	require.EqualValues(t, config.DefaultImageWidth, cfg["image_width"])
}

func TestLoggingMiddlewarePassthrough(t *testing.T) {
	s, _ := testServer(t)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	handler := LoggingMiddleware(log, s.ServeMux())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sequences", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, buf.String(), "method=GET")
	require.Contains(t, buf.String(), "path=/api/sequences")
}
