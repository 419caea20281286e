// Package notifier tells a running widget host that habit data changed so
// it can reload its timelines. The host advertises itself through a
// lockfile holding "port|pid|secret".
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/david-saint/ductiva/internal/constants"
	"github.com/david-saint/ductiva/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrHostNotRunning means no widget host is listening. Callers treat it as
// nothing to do.
var ErrHostNotRunning = errors.New("widget host is not running")

// RefreshPayload is the body POSTed to the widget host.
type RefreshPayload struct {
	Reason  string    `json:"reason"`
	HabitID string    `json:"habit_id,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

type Notifier struct {
	client *http.Client
}

func New() *Notifier {
	return &Notifier{client: &http.Client{Timeout: constants.NotifyTimeout}}
}

// Notify asks the widget host to reload. habitID may be empty when the
// change is not tied to one habit.
func (n *Notifier) Notify(reason, habitID string) error {
	dir, err := GetWidgetHostConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateHostProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := RefreshPayload{Reason: reason, HabitID: habitID, SentAt: time.Now()}

	var lastErr error
	for attempt := 0; attempt < constants.NotifyMaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(constants.NotifyRetryDelay)
		}
		if lastErr = n.send(port, secret, payload); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// Refresh is Notify for mutation call sites: a missing host is logged at
// debug level and anything else at warn. It never fails the caller.
func (n *Notifier) Refresh(habitID string) {
	err := n.Notify(constants.WidgetRefreshReason, habitID)
	switch {
	case err == nil:
		logger.Debug("Widget host refreshed", "habit", habitID)
	case errors.Is(err, ErrHostNotRunning):
		logger.Debug("No widget host to refresh", "reason", err)
	default:
		logger.Warn("Failed to refresh widgets", "error", err)
	}
}

// GetWidgetHostConfigDir returns the directory holding the host lockfile.
// The host may relocate it through lockfile_dir in its settings.json.
func GetWidgetHostConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	hostDir := filepath.Join(configDir, constants.WidgetHostIdentifier)

	data, err := os.ReadFile(filepath.Join(hostDir, "settings.json"))
	if err != nil {
		return hostDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil && store.Settings.LockfileDir != nil && *store.Settings.LockfileDir != "" {
		return *store.Settings.LockfileDir, nil
	}
	return hostDir, nil
}

func findAndValidateHostProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrHostNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", fmt.Errorf("%w: stale lockfile for PID %d", ErrHostNotRunning, pid)
	}
	if !strings.HasPrefix(process.Executable(), constants.WidgetHostExecutable) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.WidgetHostExecutable, process.Executable())
	}

	return port, secret, nil
}

func (n *Notifier) send(port, secret string, payload RefreshPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, "http://127.0.0.1:"+port+"/refresh", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.WidgetSecretHeader, secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK || res.StatusCode == http.StatusNoContent {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("widget refresh failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
