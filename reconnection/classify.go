package reconnection

import (
	"strings"

	"github.com/srediag/plugin-reconnect/internal/lifecycle"
	"github.com/srediag/plugin-reconnect/pkg/gewechat"
)

// OnlineStatus is the tri-state result of one online check.
type OnlineStatus = lifecycle.OnlineStatus

const (
	StatusUnknown = lifecycle.StatusUnknown
	StatusOnline  = lifecycle.StatusOnline
	StatusOffline = lifecycle.StatusOffline
)

// ReconnectOutcome classifies one reconnect call.
type ReconnectOutcome int

const (
	OutcomeFailed ReconnectOutcome = iota
	OutcomeReconnected
	// OutcomeAlreadyConnected is the benign "no reconnection needed" answer.
	OutcomeAlreadyConnected
)

func (o ReconnectOutcome) String() string {
	switch o {
	case OutcomeReconnected:
		return "reconnected"
	case OutcomeAlreadyConnected:
		return "already_connected"
	default:
		return "failed"
	}
}

// Success reports whether the session is expected to be up after the call.
func (o ReconnectOutcome) Success() bool {
	return o != OutcomeFailed
}

// BenignDetector recognises reconnect errors that mean the session is
// already connected. The server reports this only as a failed call with a
// human readable message, so matching is by ret code when configured and by
// message substring otherwise.
type BenignDetector struct {
	markers []string
	codes   map[int]struct{}
}

// NewBenignDetector builds a detector. Empty markers are ignored.
func NewBenignDetector(markers []string, codes []int) *BenignDetector {
	d := &BenignDetector{codes: make(map[int]struct{}, len(codes))}
	for _, m := range markers {
		if m != "" {
			d.markers = append(d.markers, m)
		}
	}
	for _, c := range codes {
		d.codes[c] = struct{}{}
	}
	return d
}

// IsBenign reports whether err is the "no reconnection needed" condition.
func (d *BenignDetector) IsBenign(err error) bool {
	if err == nil {
		return false
	}
	if apiErr, ok := gewechat.IsAPIError(err); ok && apiErr.Ret != 0 {
		if _, hit := d.codes[apiErr.Ret]; hit {
			return true
		}
	}
	msg := err.Error()
	for _, m := range d.markers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
