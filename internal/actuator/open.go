package actuator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ayusman/palmdrive/internal/plugin"
)

// Backend names accepted by Open.
const (
	BackendRobotgo = "robotgo"
	BackendUinput  = "uinput"
	BackendPlugin  = "plugin"
	BackendLog     = "log"
)

// Backends lists every backend name Open understands.
var Backends = []string{BackendRobotgo, BackendUinput, BackendPlugin, BackendLog}

// Options selects and configures an actuator backend.
type Options struct {
	Backend    string
	PluginDir  string
	Plugin     string
	Timeout    time.Duration
	UinputPath string
	Logger     *slog.Logger
}

// Open creates the backend named by opts.Backend. An empty name selects robotgo.
func Open(opts Options) (Actuator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch opts.Backend {
	case "", BackendRobotgo:
		return NewRobotgo(), nil

	case BackendUinput:
		u, err := NewUinput(opts.UinputPath, "palmdrive virtual keyboard")
		if err != nil {
			return nil, err
		}
		return u, nil

	case BackendPlugin:
		mgr := plugin.NewManager(opts.PluginDir)
		if err := mgr.Discover(); err != nil {
			return nil, fmt.Errorf("discover plugins in %s: %w", opts.PluginDir, err)
		}
		name := opts.Plugin
		if name == "" {
			name = "keyboard"
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		p, err := NewPlugin(mgr, name, plugin.NewExecutor(timeout))
		if err != nil {
			return nil, err
		}
		logger.Debug("using key plugin", "name", p.Name(), "dir", opts.PluginDir)
		return p, nil

	case BackendLog:
		return NewDryRun(logger), nil

	default:
		return nil, fmt.Errorf("unknown actuator backend %q (want one of %v)", opts.Backend, Backends)
	}
}
