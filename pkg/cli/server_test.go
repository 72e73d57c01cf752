package cli

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/reval/pkg/data"
	"github.com/mchmarny/reval/pkg/scoring"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, data.Init(dbPath))
	db, err := data.GetDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedTestData(t *testing.T, db *sql.DB) {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339)

	p := &data.Property{
		ZPID:      "12345",
		Address:   "123 Main St",
		City:      "Portland",
		State:     "OR",
		Price:     500000,
		FetchedAt: now,
	}
	require.NoError(t, data.SaveProperty(db, p))

	v := &data.Valuation{
		ZPID:       "12345",
		Composite:  78.5,
		Confidence: 0.92,
		Created:    now,
		Factors: []*data.ValuationFactor{
			{Factor: "location", Score: 82, Weight: 0.25},
		},
	}
	require.NoError(t, data.SaveValuation(db, v))
}

func TestServer_Properties(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)
	mux := makeRouter(db)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/properties", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list []*data.PropertyListItem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "12345", list[0].ZPID)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/properties/12345", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var p data.Property
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, "123 Main St", p.Address)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/properties/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Valuations(t *testing.T) {
	db := setupTestDB(t)
	seedTestData(t, db)
	mux := makeRouter(db)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/valuations", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list []*data.ValuationListItem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, 78.5, list[0].Composite)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/valuations/12345", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var v data.Valuation
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	assert.Equal(t, 0.92, v.Confidence)
	require.Len(t, v.Factors, 1)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/valuations/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Score(t *testing.T) {
	mux := makeRouter(setupTestDB(t))

	body := `{"scores": [
		{"factor": "location", "score": 90},
		{"factor": "condition", "score": 70}
	]}`

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var res scoring.ValuationResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.InDelta(t, 0.45, res.Confidence, 1e-9)
	assert.InDelta(t, (90*0.25+70*0.20)/0.45, res.Composite, 1e-9)
}

func TestServer_ScoreErrors(t *testing.T) {
	mux := makeRouter(setupTestDB(t))

	// Unknown factor
	w := httptest.NewRecorder()
	body := `{"scores": [{"factor": "curb_appeal", "score": 50}]}`
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Weights that do not sum to 1.0
	w = httptest.NewRecorder()
	body = `{"scores": [{"factor": "location", "score": 50}], "weights": {"location": 0.5}}`
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed body
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader("not json")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
