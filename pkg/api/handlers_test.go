package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/valkyrdb/pkg/catalog"
)

const testAPIKey = "test-key"

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{
		"table_name": "Employee",
		"fields": [
			{"name": "id", "type": "int"},
			{"name": "name", "type": "char(20)"},
			{"name": "salary", "type": "float"}
		]
	}`), 0600))

	c, err := catalog.Open(schemaPath, filepath.Join(dir, "data"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	server := NewServer(c, ServerConfig{APIKey: testAPIKey}, NewMetrics(), nil)
	return server.Routes()
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-API-Key", testAPIKey)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp APIResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func insertEmployee(t *testing.T, router http.Handler, body string) string {
	t.Helper()
	rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/tables/Employee/records", body)
	require.Equal(t, http.StatusOK, rec.Code, "insert failed: %s", rec.Body.String())

	data := resp.Data.(map[string]any)
	return data["rid"].(string)
}

func TestAPI_InsertGetDelete(t *testing.T) {
	router := testRouter(t)

	rid := insertEmployee(t, router, `{"id": 7, "name": "Bob", "salary": 5000.5}`)

	rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/tables/Employee/records/"+rid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	record := resp.Data.(map[string]any)["record"].(map[string]any)
	assert.Equal(t, float64(7), record["id"])
	assert.Equal(t, "Bob", record["name"])
	assert.Equal(t, float64(5000.5), record["salary"])

	rec, _ = doRequest(t, router, http.MethodDelete, "/api/v1/tables/Employee/records/"+rid, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, router, http.MethodGet, "/api/v1/tables/Employee/records/"+rid, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_InsertValidation(t *testing.T) {
	router := testRouter(t)

	testCases := []struct {
		name string
		body string
		code int
	}{
		{"missing field", `{"id": 7, "name": "Bob"}`, http.StatusBadRequest},
		{"extra field", `{"id": 7, "name": "Bob", "salary": 1, "bonus": 2}`, http.StatusBadRequest},
		{"type mismatch", `{"id": "seven", "name": "Bob", "salary": 1}`, http.StatusBadRequest},
		{"invalid json", `{`, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := doRequest(t, router, http.MethodPost, "/api/v1/tables/Employee/records", tc.body)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestAPI_UnknownTable(t *testing.T) {
	router := testRouter(t)

	rec, _ := doRequest(t, router, http.MethodPost, "/api/v1/tables/Payroll/records", `{"id": 1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_BadRID(t *testing.T) {
	router := testRouter(t)

	rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/tables/Employee/records/banana", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Scan(t *testing.T) {
	router := testRouter(t)

	for i := 0; i < 3; i++ {
		insertEmployee(t, router, fmt.Sprintf(`{"id": %d, "name": "emp-%d", "salary": 100}`, i, i))
	}

	rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/tables/Employee/records", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "Employee", data["table"])
	assert.Len(t, data["records"], 3)
}

func TestAPI_Query(t *testing.T) {
	router := testRouter(t)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/query",
		`{"statement": "INSERT INTO Employee (id, name, salary) VALUES (7, 'Bob', 5000.5)"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp.Data.(map[string]any)["rid"])

	rec, resp = doRequest(t, router, http.MethodPost, "/api/v1/query",
		`{"statement": "SELECT name FROM Employee WHERE id = 7"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]any)
	rows := data["rows"].([]any)
	require.Len(t, rows, 1)
	values := rows[0].(map[string]any)["values"].(map[string]any)
	assert.Equal(t, "Bob", values["name"])

	rec, _ = doRequest(t, router, http.MethodPost, "/api/v1/query", `{"statement": "DROP TABLE Employee"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Health(t *testing.T) {
	router := testRouter(t)

	rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, []any{"Employee"}, data["tables"])
}

func TestAPI_MetricsEndpointUnprotected(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
