// Package feed receives hand-landmark frames over a websocket from a
// browser-side detector and exposes the newest one as a grove.LandmarkSource.
//
// The browser runs the actual hand-landmark model and pushes one message per
// detection tick; the feed keeps only the latest sample. A frame older than
// the staleness window counts as no hand visible, so a stalled or closed tab
// degrades into an ordinary miss run rather than an error.
package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/embermade/grove"
)

// MessageType identifies an inbound feed message.
type MessageType string

const (
	// TypeLandmarks carries one complete 21-point hand observation.
	TypeLandmarks MessageType = "landmarks"
	// TypeEmpty reports a detection tick with no hand visible.
	TypeEmpty MessageType = "empty"
)

// Message is the wire format pushed by the detector client.
type Message struct {
	Type MessageType `json:"type"`
	// Timestamp is the client's capture time in Unix milliseconds.
	Timestamp int64 `json:"ts,omitempty"`
	// Points is the ordered landmark list, [x, y, z] per point, present
	// only for TypeLandmarks.
	Points [][3]float64 `json:"points,omitempty"`
}

// ParseMessage decodes and validates one feed message.
func ParseMessage(data []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse feed message: %w", err)
	}
	switch m.Type {
	case TypeLandmarks:
		if len(m.Points) < grove.LandmarkCount {
			return nil, fmt.Errorf("parse feed message: %d landmarks, want %d", len(m.Points), grove.LandmarkCount)
		}
	case TypeEmpty:
	default:
		return nil, fmt.Errorf("parse feed message: unknown type %q", m.Type)
	}
	return &m, nil
}

// Frame converts a TypeLandmarks message into a LandmarkFrame. The capture
// timestamp falls back to now when the client omitted it.
func (m *Message) Frame(now time.Time) *grove.LandmarkFrame {
	at := now
	if m.Timestamp > 0 {
		at = time.UnixMilli(m.Timestamp)
	}
	points := make([]grove.Point, len(m.Points))
	for i, p := range m.Points {
		points[i] = grove.Point{X: p[0], Y: p[1], Z: p[2]}
	}
	return &grove.LandmarkFrame{Points: points, At: at}
}
