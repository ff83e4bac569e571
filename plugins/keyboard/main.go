// Package main provides the keyboard plugin for palmdrive. It holds and
// releases keys with xdotool on Linux and System Events on macOS.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action string          `json:"action"`
	Key    string          `json:"key"`
	Config json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// xdotoolNames maps palmdrive key names to X keysyms.
var xdotoolNames = map[string]string{
	"right":  "Right",
	"left":   "Left",
	"up":     "Up",
	"down":   "Down",
	"space":  "space",
	"enter":  "Return",
	"escape": "Escape",
	"shift":  "Shift_L",
	"ctrl":   "Control_L",
}

// macKeyCodes maps palmdrive key names to macOS virtual key codes.
var macKeyCodes = map[string]int{
	"right":  124,
	"left":   123,
	"up":     126,
	"down":   125,
	"space":  49,
	"enter":  36,
	"escape": 53,
	"a":      0,
	"s":      1,
	"d":      2,
	"w":      13,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if err := handle(req, runtime.GOOS); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

// handle validates req and runs the command that presses or releases its key.
func handle(req Request, goos string) error {
	var down bool
	switch req.Action {
	case "key_down":
		down = true
	case "key_up":
	default:
		return fmt.Errorf("unknown action: %s", req.Action)
	}

	key := strings.ToLower(strings.TrimSpace(req.Key))
	if key == "" {
		return fmt.Errorf("key is required")
	}

	name, args, err := command(goos, key, down)
	if err != nil {
		return err
	}
	return run(name, args...)
}

// command builds the command line that presses or releases key on goos.
func command(goos, key string, down bool) (string, []string, error) {
	switch goos {
	case "linux":
		sym, ok := xdotoolNames[key]
		if !ok {
			if len(key) != 1 {
				return "", nil, fmt.Errorf("unsupported key %q", key)
			}
			sym = key
		}
		verb := "keyup"
		if down {
			verb = "keydown"
		}
		return "xdotool", []string{verb, sym}, nil

	case "darwin":
		code, ok := macKeyCodes[key]
		if !ok {
			return "", nil, fmt.Errorf("unsupported key %q", key)
		}
		verb := "key up"
		if down {
			verb = "key down"
		}
		script := fmt.Sprintf(`tell application "System Events" to %s (key code %d)`, verb, code)
		return "osascript", []string{"-e", script}, nil

	default:
		return "", nil, fmt.Errorf("unsupported platform %s", goos)
	}
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// run executes a command and returns any error with its output.
func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
