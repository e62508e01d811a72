// Package notification routes notification requests to display channels,
// shows them natively and triggers the matching sound cue.
package notification

import (
	"fmt"

	"github.com/Veraticus/idlewatch/pkg/types"
)

// Event names emitted by the notification pipeline.
const (
	EventCreateChannel = "create-notification-channel"
	EventShow          = "show-notification-with-channel"
)

// Channel describes one delivery channel.
type Channel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Importance  int    `json:"importance"`
}

// channelKind orders the channel table.
type channelKind int

const (
	kindInfo channelKind = iota
	kindWarning
	kindError
	kindSuccess
	kindCritical
)

// route is the fixed mapping for one notification type.
type route struct {
	suffix  string
	channel channelKind
}

var channels = [...]Channel{
	kindInfo: {
		ID:          "time_tracker_info",
		Name:        "Info",
		Description: "Informational notifications",
		Importance:  3,
	},
	kindWarning: {
		ID:          "time_tracker_warning",
		Name:        "Warning",
		Description: "Warning notifications",
		Importance:  4,
	},
	kindError: {
		ID:          "time_tracker_error",
		Name:        "Error",
		Description: "Error notifications",
		Importance:  5,
	},
	kindSuccess: {
		ID:          "time_tracker_success",
		Name:        "Success",
		Description: "Success notifications",
		Importance:  3,
	},
	kindCritical: {
		ID:          "time_tracker_critical",
		Name:        "Critical",
		Description: "Critical notifications",
		Importance:  5,
	},
}

// routes covers every NotificationType. ERROR and CRITICAL share a channel
// and title; OTHER falls back to the info channel with a generic title.
var routes = map[types.NotificationType]route{
	types.TypeInfo:     {suffix: "Info", channel: kindInfo},
	types.TypeWarning:  {suffix: "Warning", channel: kindWarning},
	types.TypeError:    {suffix: "Error", channel: kindError},
	types.TypeCritical: {suffix: "Error", channel: kindError},
	types.TypeSuccess:  {suffix: "Success", channel: kindSuccess},
	types.TypeOther:    {suffix: "Notification", channel: kindInfo},
}

// Channels returns a copy of the channel table.
func Channels() []Channel {
	result := make([]Channel, len(channels))
	copy(result, channels[:])
	return result
}

// ChannelPayloads builds the registration payloads for every channel,
// naming each after appName.
func ChannelPayloads(appName string) []types.ChannelPayload {
	payloads := make([]types.ChannelPayload, 0, len(channels))
	for _, ch := range channels {
		payloads = append(payloads, types.ChannelPayload{
			ID:          ch.ID,
			Name:        fmt.Sprintf("%s - %s", appName, ch.Name),
			Description: fmt.Sprintf("%s from %s", ch.Description, appName),
			Importance:  ch.Importance,
			Sound:       "notification_sound",
			Vibration:   true,
			Lights:      true,
			LightColor:  "#00FF00",
		})
	}
	return payloads
}

// Resolve maps a notification type string, matched case-sensitively, to a
// title suffix and channel ID. It never fails.
func Resolve(notificationType string) (suffix, channelID string) {
	r := ResolveType(types.ParseNotificationType(notificationType))
	return r.Suffix, r.Channel.ID
}

// Resolution is the full routing result for one type.
type Resolution struct {
	Type    types.NotificationType
	Suffix  string
	Channel Channel
}

// ResolveType routes an already parsed type.
func ResolveType(t types.NotificationType) Resolution {
	r, ok := routes[t]
	if !ok {
		r = routes[types.TypeOther]
		t = types.TypeOther
	}
	return Resolution{
		Type:    t,
		Suffix:  r.suffix,
		Channel: channels[r.channel],
	}
}

// DisplayTitle joins the application name and the title suffix.
func DisplayTitle(appName, suffix string) string {
	return appName + " - " + suffix
}
