package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oval-editor/internal/classify"
	"oval-editor/internal/config"
	"oval-editor/internal/factory"
	"oval-editor/internal/models"
	"oval-editor/internal/registry"
	"oval-editor/internal/session"
	"oval-editor/internal/validate"
)

func newDeps(t *testing.T, keys ...config.APIKey) *Deps {
	t.Helper()
	cfg := &config.Config{
		APIKeys:       keys,
		IDPrefix:      "test",
		SchemaVersion: "5.11",
		ProductName:   "oval-editor",
	}
	reg := registry.New()
	sessions, err := session.NewManager(4, models.Generator{ProductName: cfg.ProductName, SchemaVersion: cfg.SchemaVersion})
	require.NoError(t, err)
	return &Deps{
		Config:    cfg,
		Registry:  reg,
		Factory:   factory.New(reg, classify.New()),
		Validator: validate.New(reg),
		Sessions:  sessions,
	}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func openDocument(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/documents", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := decode(t, rec)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestHealthAndVersion(t *testing.T) {
	h := NewRouter(newDeps(t))

	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = do(t, h, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "oval-editor", got["name"])
	assert.Equal(t, Version, got["version"])
	assert.Equal(t, "5.11", got["schema_version"])
}

func TestHealthReportsDatabase(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	d := newDeps(t)
	d.DB = mock
	rec := do(t, NewRouter(d), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIKeyAuth(t *testing.T) {
	h := NewRouter(newDeps(t, config.APIKey{Name: "ci", Key: "s3cret", Role: "editor"}))

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusForbidden},
		{"valid", "s3cret", http.StatusCreated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/documents", nil)
			if tc.key != "" {
				req.Header.Set("X-API-Key", tc.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}

	// health stays open
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
}

func TestDocumentLifecycle(t *testing.T) {
	h := NewRouter(newDeps(t))
	id := openDocument(t, h)

	rec := do(t, h, http.MethodGet, "/api/documents/"+id+"/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc, _ := decode(t, rec)["document"].(map[string]any)
	gen, _ := doc["generator"].(map[string]any)
	assert.Equal(t, "oval-editor", gen["product_name"])

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/documents/"+id+"/", "").Code)
	rec = do(t, h, http.MethodGet, "/api/documents/"+id+"/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "not found")
}

func TestEntities(t *testing.T) {
	h := NewRouter(newDeps(t))
	base := "/api/documents/" + openDocument(t, h)

	rec := do(t, h, http.MethodPost, base+"/entities/objects", `{
		"variant": "file_object",
		"fields": {"path": {"value": "/etc"}, "filname": {"value": "passwd"}}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode(t, rec)
	entity, _ := got["entity"].(map[string]any)
	assert.Equal(t, "oval:test:obj:1", entity["id"])
	assert.Equal(t, "file_object", entity["variant"])
	warnings, _ := got["warnings"].([]any)
	require.Len(t, warnings, 1)
	w0, _ := warnings[0].(map[string]any)
	assert.Equal(t, "file_object/filname", w0["path"])
	assert.Equal(t, "warning", w0["severity"])

	rec = do(t, h, http.MethodPost, base+"/entities/objects", `{
		"variant": "file_object",
		"fields": {"id": "oval:test:obj:1", "path": {"value": "/tmp"}}
	}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/entities/objects", `{
		"variant": "rpminfo_object",
		"fields": {"id": "oval:test:obj:2", "name": {"value": "bash"}}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("list", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, base+"/entities/objects", "")
		require.Equal(t, http.StatusOK, rec.Code)
		items, _ := decode(t, rec)["items"].([]any)
		assert.Len(t, items, 2)

		rec = do(t, h, http.MethodGet, base+"/entities/objects?for_test=file_test", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{"oval:test:obj:1"}, decode(t, rec)["ids"])

		rec = do(t, h, http.MethodGet, base+"/entities/states", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{}, decode(t, rec)["items"])
	})

	t.Run("update", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, base+"/entities/objects/oval:test:obj:1", `{"comment": "etc"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		entity, _ := decode(t, rec)["entity"].(map[string]any)
		assert.Equal(t, "etc", entity["comment"])

		rec = do(t, h, http.MethodPut, base+"/entities/objects/oval:test:obj:1", `{"id": "oval:test:obj:2"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = do(t, h, http.MethodPut, base+"/entities/objects/oval:test:obj:1", `{"id": ""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, h, http.MethodGet, base+"/entities/objects/oval:test:obj:1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		entity, _ = decode(t, rec)["entity"].(map[string]any)
		assert.Equal(t, "oval:test:obj:1", entity["id"])
	})

	t.Run("errors", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, base+"/entities/widgets", "").Code)
		assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, base+"/entities/objects", `{`).Code)
		assert.Equal(t, http.StatusBadRequest,
			do(t, h, http.MethodPost, base+"/entities/objects", `{"variant": "widget_object", "fields": {"id": "a"}}`).Code)
		assert.Equal(t, http.StatusBadRequest,
			do(t, h, http.MethodPost, base+"/entities/states", `{"variant": "file_object", "fields": {"id": "a"}}`).Code)
		assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, base+"/entities/objects/oval:test:obj:9", "").Code)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, base+"/entities/objects/oval:test:obj:2", "").Code)
		assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, base+"/entities/objects/oval:test:obj:2", "").Code)
	})
}

func TestDefinitionsAndCriteria(t *testing.T) {
	h := NewRouter(newDeps(t))
	base := "/api/documents/" + openDocument(t, h)

	rec := do(t, h, http.MethodPost, base+"/definitions", `{"title": "bash is installed", "class": "inventory"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	def := decode(t, rec)
	assert.Equal(t, "oval:test:def:1", def["id"])
	assert.Equal(t, "inventory", def["class"])
	defURL := base + "/definitions/oval:test:def:1"

	rec = do(t, h, http.MethodPost, defURL+"/criteria", `{"type": "criterion", "test_ref": "oval:test:tst:1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodPost, defURL+"/criteria", `{"type": "criteria", "operator": "OR"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodPost, defURL+"/criteria?path=1", `{"type": "extend_definition", "definition_ref": "oval:test:def:2"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	crit, _ := decode(t, rec)["criteria"].(map[string]any)
	children, _ := crit["children"].([]any)
	require.Len(t, children, 2)
	nested, _ := children[1].(map[string]any)
	assert.Equal(t, "criteria", nested["type"])
	assert.Len(t, nested["children"], 1)

	t.Run("edit", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, defURL+"/criteria?path=0", `{"negate": true}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		crit, _ := decode(t, rec)["criteria"].(map[string]any)
		first, _ := crit["children"].([]any)[0].(map[string]any)
		assert.Equal(t, true, first["negate"])
		assert.Equal(t, "oval:test:tst:1", first["test_ref"])
	})

	t.Run("errors", func(t *testing.T) {
		assert.Equal(t, http.StatusUnprocessableEntity, do(t, h, http.MethodDelete, defURL+"/criteria", "").Code)
		assert.Equal(t, http.StatusBadRequest,
			do(t, h, http.MethodPost, defURL+"/criteria?path=0", `{"type": "criterion", "test_ref": "x"}`).Code)
		assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, defURL+"/criteria", `{"type": "criterion"}`).Code)
		assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, defURL+"/criteria?path=7", "").Code)
		assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, defURL+"/criteria?path=x", "").Code)
		assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, defURL, `{"version": "0"}`).Code)
	})

	t.Run("remove", func(t *testing.T) {
		rec := do(t, h, http.MethodDelete, defURL+"/criteria?path=1/0", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		crit, _ := decode(t, rec)["criteria"].(map[string]any)
		nested, _ := crit["children"].([]any)[1].(map[string]any)
		assert.Empty(t, nested["children"])
	})

	t.Run("update and rename", func(t *testing.T) {
		require.Equal(t, http.StatusCreated,
			do(t, h, http.MethodPost, base+"/definitions", `{"id": "oval:test:def:5"}`).Code)
		assert.Equal(t, http.StatusConflict,
			do(t, h, http.MethodPost, base+"/definitions", `{"id": "oval:test:def:5"}`).Code)
		assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPut, defURL, `{"id": "oval:test:def:5"}`).Code)

		rec := do(t, h, http.MethodPut, defURL, `{"title": "bash present", "version": "2"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode(t, rec)
		assert.Equal(t, "bash present", got["title"])
		assert.Equal(t, float64(2), got["version"])
	})

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, defURL, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, defURL, "").Code)
}

func TestValidationAndXML(t *testing.T) {
	h := NewRouter(newDeps(t))
	base := "/api/documents/" + openDocument(t, h)

	rec := do(t, h, http.MethodGet, base+"/validation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, true, got["valid"])
	assert.Equal(t, []any{}, got["issues"])

	rec = do(t, h, http.MethodPost, base+"/entities/tests", `{
		"variant": "file_test",
		"fields": {"id": "oval:test:tst:1", "object_ref": "oval:test:obj:9"}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, base+"/validation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode(t, rec)
	assert.Equal(t, false, got["valid"])
	var paths []any
	for _, issue := range got["issues"].([]any) {
		paths = append(paths, issue.(map[string]any)["path"])
	}
	assert.Contains(t, paths, "tests/oval:test:tst:1/object_ref")

	rec = do(t, h, http.MethodGet, base+"/xml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `id="oval:test:tst:1"`)
	assert.Contains(t, rec.Body.String(), "<oval_definitions")
}

func TestSnapshotsWithoutDatabase(t *testing.T) {
	h := NewRouter(newDeps(t))
	base := "/api/documents/" + openDocument(t, h)

	for _, method := range []string{http.MethodPost, http.MethodGet} {
		rec := do(t, h, method, base+"/snapshots", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, method)
	}
}

func TestSnapshots(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	d := newDeps(t)
	d.DB = mock
	h := NewRouter(d)
	id := openDocument(t, h)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(revision\), 0\) FROM oval\.snapshots`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(2))
	mock.ExpectExec(`INSERT INTO oval\.snapshots`).
		WithArgs(pgxmock.AnyArg(), id, 3, 0, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	rec := do(t, h, http.MethodPost, "/api/documents/"+id+"/snapshots", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode(t, rec)
	assert.Equal(t, float64(3), got["revision"])
	assert.Equal(t, id, got["document_id"])

	mock.ExpectQuery(`SELECT id, document_id, revision, issues, created_at\s+FROM oval\.snapshots`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "document_id", "revision", "issues", "created_at"}))

	rec = do(t, h, http.MethodGet, "/api/documents/"+id+"/snapshots", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decode(t, rec)["items"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistry(t *testing.T) {
	h := NewRouter(newDeps(t))

	rec := do(t, h, http.MethodGet, "/api/registry/objects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)
	assert.Equal(t, "object", got["kind"])
	var names []any
	for _, item := range got["items"].([]any) {
		names = append(names, item.(map[string]any)["name"])
	}
	assert.Contains(t, names, "file_object")
	assert.NotContains(t, names, "file_state")

	rec = do(t, h, http.MethodGet, "/api/registry/variants/file_object", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode(t, rec)
	assert.Equal(t, "object", got["kind"])
	assert.Equal(t, "unix", got["family"])
	props, _ := got["properties"].([]any)
	require.NotEmpty(t, props)
	first, _ := props[0].(map[string]any)
	assert.Equal(t, "path", first["name"])
	assert.Equal(t, string(models.ObjectString), first["wrapper"])
	assert.NotEmpty(t, got["behaviors"])

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/registry/variants/widget_object", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/registry/widgets", "").Code)
}
