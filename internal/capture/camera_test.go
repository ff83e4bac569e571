package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name     string
		deviceID int
		wantFPS  int
	}{
		{
			name:     "default device",
			deviceID: 0,
			wantFPS:  DefaultFPS,
		},
		{
			name:     "device 1",
			deviceID: 1,
			wantFPS:  DefaultFPS,
		},
		{
			name:     "device 2",
			deviceID: 2,
			wantFPS:  DefaultFPS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.deviceID)

			if cam == nil {
				t.Fatal("NewCamera returned nil")
			}

			// Check default FPS through public interface
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d (default)", got, tt.wantFPS)
			}

			// Camera should not be running initially
			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
		})
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{
			name:    "set to 10",
			fps:     10,
			wantFPS: 10,
		},
		{
			name:    "set to 30",
			fps:     30,
			wantFPS: 30,
		},
		{
			name:    "set to 1",
			fps:     1,
			wantFPS: 1,
		},
		{
			name:    "set to 0 should keep previous",
			fps:     0,
			wantFPS: 1, // Previous value
		},
		{
			name:    "set to negative should keep previous",
			fps:     -5,
			wantFPS: 1, // Previous value
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)

			got := cam.FPS()
			if got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_FPS(t *testing.T) {
	cam := NewCamera(0)

	// Default FPS
	if got := cam.FPS(); got != DefaultFPS {
		t.Errorf("FPS() = %d, want %d (default)", got, DefaultFPS)
	}

	// After setting
	cam.SetFPS(15)
	if got := cam.FPS(); got != 15 {
		t.Errorf("FPS() = %d, want 15", got)
	}
}

func TestCamera_IsOpen_NotOpened(t *testing.T) {
	cam := NewCamera(0)

	if cam.IsOpen() {
		t.Error("IsOpen() should return false before Open() is called")
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0)

	// Test Open
	err := cam.Open()
	if err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	// Test ReadFrame
	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat == nil {
			t.Error("ReadFrame() returned nil mat")
		} else if mat.Empty() {
			t.Error("ReadFrame() returned empty mat")
		} else {
			t.Logf("native frame dimensions: %dx%d", mat.Cols(), mat.Rows())
			mat.Close()
		}
	}

	// Test Close
	err = cam.Close()
	if err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(0)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(0)

	// Close on not opened camera should not panic and return nil
	err := cam.Close()
	if err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}

func TestNewCameraWithOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantFPS int
	}{
		{"zero options keep defaults", Options{}, DefaultFPS},
		{"explicit fps", Options{FPS: 15}, 15},
		{"resolution only", Options{Width: 1280, Height: 720}, DefaultFPS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCameraWithOptions(0, tt.opts)
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
		})
	}
}

func TestMirror(t *testing.T) {
	frame := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC1)
	defer frame.Close()

	frame.SetUCharAt(0, 0, 10)
	frame.SetUCharAt(0, 1, 20)
	frame.SetUCharAt(1, 0, 30)
	frame.SetUCharAt(1, 1, 40)

	Mirror(&frame)

	want := [2][2]uint8{{20, 10}, {40, 30}}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if got := frame.GetUCharAt(r, c); got != want[r][c] {
				t.Errorf("pixel (%d,%d) = %d, want %d", r, c, got, want[r][c])
			}
		}
	}
}

func TestMirror_Empty(t *testing.T) {
	Mirror(nil)

	empty := gocv.NewMat()
	defer empty.Close()
	Mirror(&empty)

	if !empty.Empty() {
		t.Error("Mirror() should leave an empty frame empty")
	}
}
