package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/AzielCF/wap-gatekeeper/config"
	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	"github.com/AzielCF/wap-gatekeeper/infrastructure/pendingstore"
	"github.com/AzielCF/wap-gatekeeper/infrastructure/storage"
	pkgError "github.com/AzielCF/wap-gatekeeper/pkg/error"
	"github.com/AzielCF/wap-gatekeeper/pkg/utils"
	"github.com/AzielCF/wap-gatekeeper/ui/rest/middleware"
	"github.com/AzielCF/wap-gatekeeper/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accessApp struct {
	app        *fiber.App
	configPath string
	usersPath  string
	documents  *flakyDocuments
}

// flakyDocuments fails saves while saveErr is set.
type flakyDocuments struct {
	inner   *config.Store
	saveErr error
}

func (f *flakyDocuments) Load(ctx context.Context, path string) (*config.Document, error) {
	return f.inner.Load(ctx, path)
}

func (f *flakyDocuments) Save(ctx context.Context, doc *config.Document, path string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.inner.Save(ctx, doc, path)
}

func newAccessApp(t *testing.T, extra string) *accessApp {
	t.Helper()
	dir := t.TempDir()
	a := &accessApp{
		configPath: filepath.Join(dir, "config.yaml"),
		usersPath:  filepath.Join(dir, "pending_users.yaml"),
	}
	content := "pending_users_file: '" + a.usersPath + "'\npending_groups_file: '" + filepath.Join(dir, "pending_groups.yaml") + "'\n" + extra
	require.NoError(t, os.WriteFile(a.configPath, []byte(content), 0o644))

	files := storage.NewFiles(nil)
	documents := &flakyDocuments{inner: config.NewStore(files)}
	a.documents = documents
	service := usecase.NewAccessService(usecase.AccessOptions{
		ConfigPath:  a.configPath,
		Documents:   documents,
		UserStores:  pendingstore.FileFactory[domainAccess.UserEntry](files),
		GroupStores: pendingstore.FileFactory[domainAccess.GroupEntry](files),
	})

	a.app = fiber.New()
	a.app.Use(middleware.Recovery())
	InitRestAccess(a.app.Group("/api"), service, documents, a.configPath)
	return a
}

func (a *accessApp) do(t *testing.T, method, target, body string) (int, utils.ResponseData) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out utils.ResponseData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestAccess_ListAndApprove(t *testing.T) {
	a := newAccessApp(t, "")
	require.NoError(t, os.WriteFile(a.usersPath, []byte("pending_users:\n- {name: A, uuid: u1}\n- {name: B, uuid: u2}\n"), 0o644))

	status, res := a.do(t, http.MethodGet, "/api/access/users/pending", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "SUCCESS", res.Code)
	results, ok := res.Results.(map[string]any)
	require.True(t, ok)
	assert.Len(t, results["entries"], 2)

	status, res = a.do(t, http.MethodPost, "/api/access/users/pending/1/approve", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, res.Message, "Approved user: A")

	status, res = a.do(t, http.MethodGet, "/api/access/users/allowed/u1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, res.Results.(map[string]any)["allowed"])
}

func TestAccess_ApproveValidation(t *testing.T) {
	a := newAccessApp(t, "")

	status, res := a.do(t, http.MethodPost, "/api/access/users/pending/abc/approve", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "BAD_REQUEST", res.Code)

	status, res = a.do(t, http.MethodPost, "/api/access/users/pending/1/approve", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", res.Code)
}

func TestAccess_RemoveAndTruncate(t *testing.T) {
	a := newAccessApp(t, "allowed_groups:\n- {name: G, id: '100', int_id: g1}\n")

	status, res := a.do(t, http.MethodDelete, "/api/access/groups/allowed/999", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND_ERROR", res.Code)
	assert.Contains(t, res.Message, "No group found")

	status, res = a.do(t, http.MethodDelete, "/api/access/groups/allowed/100", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, res.Message, "Removed group with ID: 100")

	status, res = a.do(t, http.MethodDelete, "/api/access/groups/pending", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "📭 No pending groups.", res.Message)
}

func TestAccess_UnknownDomainAndMissingConfig(t *testing.T) {
	a := newAccessApp(t, "")

	status, res := a.do(t, http.MethodGet, "/api/access/devices/pending", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", res.Code)

	require.NoError(t, os.Remove(a.configPath))
	status, _ = a.do(t, http.MethodGet, "/api/access/users/pending", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAccess_Submit(t *testing.T) {
	a := newAccessApp(t, "dynamic_user_management: true\n")

	status, res := a.do(t, http.MethodPost, "/api/access/users/pending", `{"name":"C","uuid":"u3"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "queued", res.Results.(map[string]any)["outcome"])

	status, _ = a.do(t, http.MethodPost, "/api/access/users/pending", `{"name":"no id"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAccess_ApproveSaveFailure(t *testing.T) {
	a := newAccessApp(t, "")
	require.NoError(t, os.WriteFile(a.usersPath, []byte("pending_users:\n- {name: A, uuid: u1}\n"), 0o644))
	a.documents.saveErr = pkgError.IOError("disk full")

	status, res := a.do(t, http.MethodPost, "/api/access/users/pending/1/approve", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "IO_ERROR", res.Code)
	assert.Contains(t, res.Message, "Error saving configuration")
	assert.Equal(t, "failed", res.Results.(map[string]any)["outcome"])

	// Untyped errors still surface as a failure, not SUCCESS.
	a.documents.saveErr = errors.New("boom")
	status, res = a.do(t, http.MethodPost, "/api/access/users/pending/1/approve", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", res.Code)
}

func TestAccess_TruncateFailure(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}
	a := newAccessApp(t, "")
	require.NoError(t, os.WriteFile(a.usersPath, []byte("pending_users:\n- {name: A, uuid: u1}\n"), 0o644))

	// The lock file must exist before the directory turns read-only.
	require.NoError(t, os.WriteFile(a.configPath+".lock", nil, 0o644))
	dir := filepath.Dir(a.usersPath)
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	status, res := a.do(t, http.MethodDelete, "/api/access/users/pending", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, res.Message, "Error clearing pending users")
}
