package host

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Local implements Host for a headless daemon. Registration and the wake
// resource are bookkeeping only (a daemon is not suspended by its host), the
// notification is logged and mirrored to an optional status file, and
// Terminate calls the configured exit function.
type Local struct {
	logger     *slog.Logger
	statusPath string
	exit       func(code int)

	mu         sync.Mutex
	registered bool
	wakeHeld   bool
}

// LocalConfig configures a Local host.
type LocalConfig struct {
	Logger *slog.Logger
	// StatusPath, when non-empty, receives the rendered notification so
	// external tooling can read the current status line.
	StatusPath string
	// Exit overrides the process termination call. Defaults to os.Exit.
	Exit func(code int)
}

func NewLocal(cfg LocalConfig) *Local {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Exit == nil {
		cfg.Exit = os.Exit
	}
	return &Local{
		logger:     cfg.Logger,
		statusPath: cfg.StatusPath,
		exit:       cfg.Exit,
	}
}

func (l *Local) RegisterBackgroundUnit() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.registered = true
	return nil
}

func (l *Local) UnregisterBackgroundUnit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.registered = false
}

func (l *Local) AcquireWakeResource() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.wakeHeld = true
	return nil
}

func (l *Local) ReleaseWakeResource() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.wakeHeld = false
}

func (l *Local) PostOrUpdateNotification(n Notification) error {
	l.logger.Info("status notification",
		slog.String("title", n.Title),
		slog.String("body", n.Body),
		slog.String("action", string(n.Action)))
	if l.statusPath == "" {
		return nil
	}
	content := fmt.Sprintf("%s\n%s\naction: %s\n", n.Title, n.Body, n.Action)
	return writeFileAtomic(l.statusPath, []byte(content))
}

func (l *Local) CancelNotification() {
	if l.statusPath != "" {
		_ = os.Remove(l.statusPath)
	}
}

func (l *Local) Terminate() {
	l.logger.Info("terminating process")
	l.exit(0)
}

// Registered reports whether the background unit is currently registered.
func (l *Local) Registered() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registered
}

// WakeHeld reports whether the wake resource is currently held.
func (l *Local) WakeHeld() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wakeHeld
}

// writeFileAtomic writes via a temp file and rename so readers never observe
// a torn status file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	tmp, err := os.CreateTemp(dir, base+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
