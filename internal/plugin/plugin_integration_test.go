package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPlugin_Keyboard_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	pluginDir := findPluginDir("keyboard")
	if pluginDir == "" {
		t.Skip("keyboard plugin not found")
	}

	mgr := NewManager(filepath.Dir(pluginDir))
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plug, err := mgr.Find("keyboard", ActionKeyDown, ActionKeyUp)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if _, err := os.Stat(plug.Executable); err != nil {
		t.Skip("keyboard plugin binary not built")
	}

	executor := NewExecutor(5 * time.Second)

	// An empty key is rejected before anything is injected.
	resp, err := executor.Execute(context.Background(), plug, &Request{Action: ActionKeyDown, Key: ""})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if resp.Success {
		t.Error("expected failure for empty key")
	}
}

func findPluginDir(name string) string {
	candidates := []string{
		filepath.Join("../../plugins", name),
		filepath.Join("../../../plugins", name),
	}

	for _, dir := range candidates {
		manifest := filepath.Join(dir, "plugin.json")
		if _, err := os.Stat(manifest); err == nil {
			return dir
		}
	}
	return ""
}
