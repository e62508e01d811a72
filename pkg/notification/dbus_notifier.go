package notification

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsNotify = "org.freedesktop.Notifications.Notify"
)

// Urgency levels from the desktop notifications specification.
const (
	urgencyLow      byte = 0
	urgencyNormal   byte = 1
	urgencyCritical byte = 2
)

// DBusNotifier shows notifications through org.freedesktop.Notifications.
type DBusNotifier struct {
	appName string

	mu   sync.Mutex
	conn *dbus.Conn
	call func(args ...interface{}) error
}

// NewDBusNotifier creates a notifier that sends as appName.
func NewDBusNotifier(appName string) *DBusNotifier {
	n := &DBusNotifier{appName: appName}
	n.call = n.busCall
	return n
}

// Notify sends the notification with an urgency derived from importance.
func (n *DBusNotifier) Notify(title, body string, importance int) error {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgencyFor(importance)),
	}

	// app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout
	err := n.call(n.appName, uint32(0), "", title, body, []string{}, hints, int32(-1))
	if err != nil {
		return fmt.Errorf("dbus notify: %w", err)
	}
	return nil
}

func (n *DBusNotifier) busCall(args ...interface{}) error {
	conn, err := n.connection()
	if err != nil {
		return err
	}
	return conn.Object(notificationsDest, notificationsPath).Call(notificationsNotify, 0, args...).Err
}

func (n *DBusNotifier) connection() (*dbus.Conn, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn != nil && n.conn.Connected() {
		return n.conn, nil
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	n.conn = conn
	return conn, nil
}

// urgencyFor maps channel importance (1-5) onto notification urgency.
func urgencyFor(importance int) byte {
	switch {
	case importance >= 5:
		return urgencyCritical
	case importance >= 3:
		return urgencyNormal
	default:
		return urgencyLow
	}
}
