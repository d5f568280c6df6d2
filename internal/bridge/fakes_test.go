package bridge

import (
	"sync"

	"github.com/halver/corebridge/internal/host"
)

// fakeSource implements core.StatusSource with scriptable state and a call log.
type fakeSource struct {
	mu    sync.Mutex
	title string
	body  string

	canStart bool
	canStop  bool
	exit     bool

	calls []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{title: "Integrated node", body: "Running", canStop: true}
}

func (f *fakeSource) set(fn func(f *fakeSource)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeSource) StatusTitle() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title
}

func (f *fakeSource) StatusBody() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.body
}

func (f *fakeSource) CanStart() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canStart
}

func (f *fakeSource) CanStop() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canStop
}

func (f *fakeSource) ExitRequested() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exit
}

func (f *fakeSource) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "Start")
}

func (f *fakeSource) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "Stop")
}

func (f *fakeSource) StopToExit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "StopToExit")
}

func (f *fakeSource) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// fakeHost implements host.Host, recording every interaction.
type fakeHost struct {
	mu sync.Mutex

	registerErr error
	wakeErr     error

	registered bool
	wakeHeld   bool
	terminated bool

	notifications []host.Notification
	cancels       int
	registers     int
	unregisters   int

	// postDelay, when set, is invoked while holding no lock so tests can
	// block notification delivery.
	postHook func()
}

func newFakeHost() *fakeHost { return &fakeHost{} }

func (f *fakeHost) RegisterBackgroundUnit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = true
	f.registers++
	return nil
}

func (f *fakeHost) UnregisterBackgroundUnit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = false
	f.unregisters++
}

func (f *fakeHost) AcquireWakeResource() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.wakeErr != nil {
		return f.wakeErr
	}
	f.wakeHeld = true
	return nil
}

func (f *fakeHost) ReleaseWakeResource() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wakeHeld = false
}

func (f *fakeHost) PostOrUpdateNotification(n host.Notification) error {
	f.mu.Lock()
	hook := f.postHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeHost) CancelNotification() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
}

func (f *fakeHost) Terminate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminated = true
}

func (f *fakeHost) posted() []host.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]host.Notification, len(f.notifications))
	copy(out, f.notifications)
	return out
}

func (f *fakeHost) postedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notifications)
}

func (f *fakeHost) isRegistered() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registered
}

func (f *fakeHost) isWakeHeld() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wakeHeld
}

func (f *fakeHost) isTerminated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.terminated
}
