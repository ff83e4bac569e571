package actuator

import (
	"context"
	"fmt"

	"github.com/ayusman/palmdrive/internal/plugin"
)

// Plugin forwards key events to an out-of-process key plugin.
type Plugin struct {
	plugin   *plugin.Plugin
	executor *plugin.Executor
}

// NewPlugin looks up name in mgr and checks that it can press and release keys.
// mgr must already have run Discover.
func NewPlugin(mgr *plugin.Manager, name string, executor *plugin.Executor) (*Plugin, error) {
	p, err := mgr.Find(name, plugin.ActionKeyDown, plugin.ActionKeyUp)
	if err != nil {
		return nil, err
	}
	return &Plugin{plugin: p, executor: executor}, nil
}

// Name returns the plugin's manifest name.
func (p *Plugin) Name() string {
	return p.plugin.Manifest.Name
}

// SetKey sends key_down or key_up for key.
func (p *Plugin) SetKey(key string, pressed bool) error {
	action := plugin.ActionKeyUp
	if pressed {
		action = plugin.ActionKeyDown
	}

	resp, err := p.executor.Execute(context.Background(), p.plugin, &plugin.Request{
		Action: action,
		Key:    key,
	})
	if err != nil {
		return fmt.Errorf("plugin %s %s %s: %w", p.plugin.Manifest.Name, action, key, err)
	}
	if !resp.Success {
		return fmt.Errorf("plugin %s %s %s: %s", p.plugin.Manifest.Name, action, key, resp.Error)
	}
	return nil
}

// Close is a no-op; plugin processes live for one request.
func (p *Plugin) Close() error {
	return nil
}
