package notifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/david-saint/ductiva/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	userConfigDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDirFunc = old })
	return dir
}

func withProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
	t.Cleanup(func() { findProcessFunc = old })
}

func TestGetWidgetHostConfigDir(t *testing.T) {
	configDir := withConfigDir(t)
	hostDir := filepath.Join(configDir, constants.WidgetHostIdentifier)

	dir, err := GetWidgetHostConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != hostDir {
		t.Errorf("expected %s, got %s", hostDir, dir)
	}

	if err := os.MkdirAll(hostDir, 0755); err != nil {
		t.Fatal(err)
	}
	custom := "/custom/ductiva/locks"
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, custom)
	if err := os.WriteFile(filepath.Join(hostDir, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetWidgetHostConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != custom {
		t.Errorf("expected %s, got %s", custom, dir)
	}
}

func TestFindAndValidateHostProcess(t *testing.T) {
	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateHostProcess(lockfilePath); !errors.Is(err, ErrHostNotRunning) {
		t.Errorf("missing lockfile error = %v, want ErrHostNotRunning", err)
	}

	tests := []struct {
		name       string
		content    string
		executable string
		wantErr    string
	}{
		{"two part lockfile", "8080|12345", constants.WidgetHostExecutable, "malformed"},
		{"garbage", "invalid", constants.WidgetHostExecutable, "malformed"},
		{"empty secret", "8080|12345|", constants.WidgetHostExecutable, "secret"},
		{"empty port", "|12345|s3cret", constants.WidgetHostExecutable, "port"},
		{"port out of range", "99999|12345|s3cret", constants.WidgetHostExecutable, "outside valid range"},
		{"bad pid", "8080|abc|s3cret", constants.WidgetHostExecutable, "process ID"},
		{"process gone", "8080|12345|s3cret", "", "not running"},
		{"wrong executable", "8080|12345|s3cret", "other-app", "is not"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withProcess(t, tt.executable)
			if err := os.WriteFile(lockfilePath, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, _, err := findAndValidateHostProcess(lockfilePath)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}

	withProcess(t, constants.WidgetHostExecutable)
	if err := os.WriteFile(lockfilePath, []byte("8080|12345|s3cret\n"), 0644); err != nil {
		t.Fatal(err)
	}
	port, secret, err := findAndValidateHostProcess(lockfilePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != "8080" || secret != "s3cret" {
		t.Errorf("got port %s secret %s", port, secret)
	}
}

func newHostServer(t *testing.T, hits *int32) (string, func()) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.Method != http.MethodPost || r.URL.Path != "/refresh" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get(constants.WidgetSecretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		var payload RefreshPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if payload.Reason == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	parts := strings.Split(server.URL, ":")
	return parts[len(parts)-1], server.Close
}

func TestSend(t *testing.T) {
	var hits int32
	port, closeServer := newHostServer(t, &hits)
	defer closeServer()

	n := New()
	if err := n.send(port, "test-secret", RefreshPayload{Reason: "habits-changed"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := n.send(port, "wrong-secret", RefreshPayload{Reason: "habits-changed"}); err == nil {
		t.Error("expected error for wrong secret")
	}
	if err := n.send(port, "test-secret", RefreshPayload{Reason: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}
}

func TestNotifyEndToEnd(t *testing.T) {
	configDir := withConfigDir(t)
	withProcess(t, constants.WidgetHostExecutable)

	var hits int32
	port, closeServer := newHostServer(t, &hits)
	defer closeServer()

	hostDir := filepath.Join(configDir, constants.WidgetHostIdentifier)
	if err := os.MkdirAll(hostDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := fmt.Sprintf("%s|%d|test-secret", port, os.Getpid())
	if err := os.WriteFile(filepath.Join(hostDir, constants.NotifierLockfileName), []byte(lock), 0644); err != nil {
		t.Fatal(err)
	}

	if err := New().Notify(constants.WidgetRefreshReason, "habit-1"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected 1 request, got %d", hits)
	}

	// Retries stop after NotifyMaxRetries.
	atomic.StoreInt32(&hits, 0)
	if err := New().Notify("fail", ""); err == nil {
		t.Error("expected error when the host keeps failing")
	}
	if got := atomic.LoadInt32(&hits); got != int32(constants.NotifyMaxRetries) {
		t.Errorf("expected %d attempts, got %d", constants.NotifyMaxRetries, got)
	}
}

func TestRefreshWithoutHost(t *testing.T) {
	withConfigDir(t)
	// Must not panic or block when nothing is listening.
	New().Refresh("habit-1")
}
