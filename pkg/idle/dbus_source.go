package idle

import (
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

// DBusIdleSource asks a session-bus service for the current idle time.
type DBusIdleSource struct {
	dest   string
	path   dbus.ObjectPath
	method string
	unit   time.Duration

	mu    sync.Mutex
	conn  *dbus.Conn
	query func() ([]interface{}, error)
}

// NewMutterIdleSource queries GNOME Mutter's IdleMonitor (milliseconds).
func NewMutterIdleSource() *DBusIdleSource {
	return newDBusIdleSource(
		"org.gnome.Mutter.IdleMonitor",
		"/org/gnome/Mutter/IdleMonitor/Core",
		"org.gnome.Mutter.IdleMonitor.GetIdletime",
		time.Millisecond,
	)
}

// NewScreenSaverIdleSource queries the freedesktop ScreenSaver service (seconds).
func NewScreenSaverIdleSource() *DBusIdleSource {
	return newDBusIdleSource(
		"org.freedesktop.ScreenSaver",
		"/org/freedesktop/ScreenSaver",
		"org.freedesktop.ScreenSaver.GetSessionIdleTime",
		time.Second,
	)
}

func newDBusIdleSource(dest string, path dbus.ObjectPath, method string, unit time.Duration) *DBusIdleSource {
	s := &DBusIdleSource{
		dest:   dest,
		path:   path,
		method: method,
		unit:   unit,
	}
	s.query = s.busQuery
	return s
}

// IdleDuration calls the configured method and scales the reply.
func (s *DBusIdleSource) IdleDuration() (time.Duration, error) {
	body, err := s.query()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s.method, err)
	}
	if len(body) == 0 {
		return 0, fmt.Errorf("%s: empty reply", s.method)
	}

	value, err := replyToUint64(body[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s.method, err)
	}

	return time.Duration(value) * s.unit, nil
}

// busQuery performs the call on the shared session bus connection.
func (s *DBusIdleSource) busQuery() ([]interface{}, error) {
	conn, err := s.connection()
	if err != nil {
		return nil, err
	}

	call := conn.Object(s.dest, s.path).Call(s.method, 0)
	if call.Err != nil {
		return nil, call.Err
	}
	return call.Body, nil
}

// connection returns the session bus, connecting on first use.
func (s *DBusIdleSource) connection() (*dbus.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil && s.conn.Connected() {
		return s.conn, nil
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	s.conn = conn
	return conn, nil
}

// replyToUint64 converts the integer types services use for idle time.
func replyToUint64(v interface{}) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("negative idle time %d", n)
		}
		return uint64(n), nil
	case int32:
		if n < 0 {
			return 0, fmt.Errorf("negative idle time %d", n)
		}
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("unexpected reply type %T", v)
	}
}
