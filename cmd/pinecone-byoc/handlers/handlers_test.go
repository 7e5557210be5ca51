package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/config"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/resources"
	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/state"
)

type fakeUninstallRunner struct {
	mu     sync.Mutex
	called bool
	image  string
}

func (f *fakeUninstallRunner) Uninstall(_ context.Context, _ []byte, image string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called = true
	f.image = image
	return nil
}

// fakeControlPlane serves every route the bootstrap touches and records the
// calls it saw.
type fakeControlPlane struct {
	mu    sync.Mutex
	calls []string
}

func (cp *fakeControlPlane) record(r *http.Request) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.calls = append(cp.calls, r.Method+" "+r.URL.Path)
}

func (cp *fakeControlPlane) seen(call string) bool {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	for _, c := range cp.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (cp *fakeControlPlane) server(t *testing.T) *httptest.Server {
	t.Helper()

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
		writeJSON(w, map[string]any{"access_token": "bearer-tok", "token_type": "Bearer", "expires_in": 3600})
	})
	mux.HandleFunc("POST /internal/cpgw/infra/bootstrap/environments", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
		writeJSON(w, map[string]string{
			"id": "env-1", "name": "acme-prod.byoc",
			"organization_id": "org-1", "organization_name": "Acme",
		})
	})
	mux.HandleFunc("DELETE /internal/cpgw/infra/bootstrap/environments/{id}", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
	})
	mux.HandleFunc("POST /internal/cpgw/infra/bootstrap/cpgw-api-keys", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
		writeJSON(w, map[string]string{"id": "key-1", "key": "cpgw-secret"})
	})
	mux.HandleFunc("DELETE /internal/cpgw/infra/bootstrap/cpgw-api-keys/{id}", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
	})
	mux.HandleFunc("POST /internal/cpgw/infra/service-accounts", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
		assert.Equal(t, "cpgw-secret", r.Header.Get("Api-Key"))
		writeJSON(w, map[string]string{"id": "sa-1", "client_id": "client-1", "client_secret": "shh"})
	})
	mux.HandleFunc("DELETE /internal/cpgw/infra/service-accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
	})
	mux.HandleFunc("POST /internal/cpgw/infra/dns-delegation", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
		writeJSON(w, map[string]string{"change_id": "c-1", "status": "PENDING", "fqdn": "acme-prod.pinecone.io"})
	})
	mux.HandleFunc("POST /internal/cpgw/infra/dns-delegation/delete", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
		writeJSON(w, map[string]string{"change_id": "c-2", "status": "PENDING"})
	})
	mux.HandleFunc("POST /internal/cpgw/infra/amp-access", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
		writeJSON(w, map[string]string{
			"pinecone_role_arn":         "arn:aws:iam::1:role/pc",
			"amp_remote_write_endpoint": "https://amp.example.test",
			"amp_region":                "us-east-1",
		})
	})
	mux.HandleFunc("POST /internal/cpgw/infra/amp-access/delete", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
	})
	mux.HandleFunc("POST /internal/cpgw/infra/datadog-credentials", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
		writeJSON(w, map[string]string{"api_key": "dd-secret", "key_id": "dd-1"})
	})
	mux.HandleFunc("POST /internal/cpgw/infra/datadog-credentials/delete", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
		writeJSON(w, map[string]bool{"deleted": true})
	})
	mux.HandleFunc("POST /management/organizations/{org}/projects", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
		assert.Equal(t, "Bearer bearer-tok", r.Header.Get("Authorization"))
		writeJSON(w, map[string]string{"id": "proj-1"})
	})
	mux.HandleFunc("POST /management/projects/{id}/api-keys", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
		writeJSON(w, map[string]any{
			"key":   map[string]string{"id": "pk-1", "project_id": r.PathValue("id")},
			"value": "project-secret",
		})
	})
	mux.HandleFunc("DELETE /management/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		cp.record(r)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// setup writes a config file against a fake control plane and swaps the
// uninstall runner seam. It returns the config path, the state path and the
// fakes.
func setup(t *testing.T) (string, string, *fakeControlPlane, *fakeUninstallRunner) {
	t.Helper()

	cp := &fakeControlPlane{}
	srv := cp.server(t)

	dir := t.TempDir()
	kubeconfigPath := filepath.Join(dir, "kubeconfig")
	require.NoError(t, os.WriteFile(kubeconfigPath, []byte(`{"apiVersion":"v1","kind":"Config"}`), 0o600))

	statePath := filepath.Join(dir, "state.json")
	configPath := filepath.Join(dir, "byoc.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
cloud: aws
region: us-east-1
global_env: prod
api_url: `+srv.URL+`
auth_domain: `+srv.URL+`
nameservers: [ns-1.example.com, ns-2.example.com]
workload_role_arn: arn:aws:iam::123:role/metrics
uninstall:
  kubeconfig_path: `+kubeconfigPath+`
  pinetools_image: ghcr.io/pinecone-io/pinetools:v1
state:
  backend: file
  path: `+statePath+`
`), 0o600))

	runner := &fakeUninstallRunner{}
	orig := newUninstallRunner
	newUninstallRunner = func() resources.UninstallRunner { return runner }
	t.Cleanup(func() { newUninstallRunner = orig })

	t.Setenv(config.EnvAPIKey, "admin-secret")

	return configPath, statePath, cp, runner
}

func loadState(t *testing.T, statePath string) *state.Store {
	t.Helper()
	st, err := state.Open(context.Background(), state.NewFileBackend(statePath))
	require.NoError(t, err)
	return st
}

func TestBootstrapThenDestroy(t *testing.T) {
	configPath, statePath, cp, runner := setup(t)

	require.NoError(t, Bootstrap(context.Background(), configPath))

	st := loadState(t, statePath)
	require.Len(t, st.Records(), 8)
	rec, ok := st.Lookup(resources.KindEnvironment, resources.KindEnvironment)
	require.True(t, ok)
	assert.Equal(t, "env-1", rec.ID)
	assert.True(t, cp.seen("POST /management/organizations/org-1/projects"))
	assert.False(t, runner.called)

	require.NoError(t, Destroy(context.Background(), configPath, false))

	assert.True(t, runner.called)
	assert.Equal(t, "ghcr.io/pinecone-io/pinetools:v1", runner.image)
	assert.True(t, cp.seen("POST /internal/cpgw/infra/dns-delegation/delete"))
	assert.True(t, cp.seen("DELETE /management/projects/proj-1"))
	assert.True(t, cp.seen("DELETE /internal/cpgw/infra/bootstrap/environments/env-1"))
	assert.True(t, loadState(t, statePath).Empty())
}

func TestBootstrapIsIdempotent(t *testing.T) {
	configPath, statePath, cp, _ := setup(t)

	require.NoError(t, Bootstrap(context.Background(), configPath))
	callsAfterFirst := len(cp.calls)

	require.NoError(t, Bootstrap(context.Background(), configPath))
	assert.Equal(t, callsAfterFirst, len(cp.calls), "second bootstrap must not touch the control plane")
	require.Len(t, loadState(t, statePath).Records(), 8)
}

func TestDestroySkipUninstall(t *testing.T) {
	configPath, statePath, _, runner := setup(t)

	require.NoError(t, Bootstrap(context.Background(), configPath))
	require.NoError(t, Destroy(context.Background(), configPath, true))

	assert.False(t, runner.called)
	assert.True(t, loadState(t, statePath).Empty())
}

func TestBootstrapRequiresAPIKey(t *testing.T) {
	configPath, _, _, _ := setup(t)
	t.Setenv(config.EnvAPIKey, "")

	err := Bootstrap(context.Background(), configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvAPIKey)
}

func TestBootstrapRejectsMissingConfig(t *testing.T) {
	err := Bootstrap(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDestroyWithoutStateIsNoop(t *testing.T) {
	configPath, statePath, cp, runner := setup(t)

	require.NoError(t, Destroy(context.Background(), configPath, false))
	assert.Empty(t, cp.calls)
	assert.False(t, runner.called)
	_, err := os.Stat(statePath)
	assert.True(t, os.IsNotExist(err))
}
