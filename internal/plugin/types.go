// Package plugin runs out-of-process key injectors.
//
// A plugin is a directory holding a plugin.json manifest and an executable.
// Each key event is sent as one JSON Request on the plugin's stdin and
// answered with one JSON Response on stdout.
package plugin

import "encoding/json"

// Key actions every key plugin must implement.
const (
	ActionKeyDown = "key_down"
	ActionKeyUp   = "key_up"
)

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Actions     []string        `json:"actions"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Supports reports whether the manifest lists action.
func (m Manifest) Supports(action string) bool {
	for _, a := range m.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Request represents a request sent to a plugin for execution.
type Request struct {
	Action  string          `json:"action"`
	Key     string          `json:"key"`
	Gesture string          `json:"gesture,omitempty"`
	Config  json.RawMessage `json:"config,omitempty"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
