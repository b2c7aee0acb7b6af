package internal

import (
	"os"
	"os/exec"
	"runtime"
)

// AccessibilityBackendName identifies which structured-metadata backend a
// platform offers.
type AccessibilityBackendName string

const (
	BackendDOM  AccessibilityBackendName = "dom" // DevTools DOM/a11y tree (web mode)
	BackendUIA  AccessibilityBackendName = "windows-ui-automation"
	BackendAX   AccessibilityBackendName = "macos-accessibility"
	BackendNone AccessibilityBackendName = ""
)

// Capabilities describes what the current operating environment can do for
// one session. Resolved once at session start and treated as immutable for
// the session's lifetime; mid-session permission changes are a known
// limitation.
type Capabilities struct {
	OS                string                   `json:"os" yaml:"os"`
	Mode              Mode                     `json:"mode" yaml:"mode"`
	ScreenshotMethod  string                   `json:"screenshot_method" yaml:"screenshot_method"`
	WindowEnumeration bool                     `json:"window_enumeration" yaml:"window_enumeration"`
	Accessibility     AccessibilityBackendName `json:"accessibility,omitempty" yaml:"accessibility,omitempty"`
	DPIScale          float64                  `json:"dpi_scale" yaml:"dpi_scale"`
	Notes             []string                 `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// HasAccessibility reports whether a structured-metadata backend is
// available.
func (c Capabilities) HasAccessibility() bool {
	return c.Accessibility != BackendNone
}

// ResolveCapabilities determines which capture and element-resolution
// backends are available for the given mode. One-shot and side-effect-free
// apart from probing for installed tools; there is always at least one
// screenshot method (web mode carries its own via the browser).
func ResolveCapabilities(mode Mode) Capabilities {
	if mode == ModeWeb {
		return Capabilities{
			OS:                runtime.GOOS,
			Mode:              ModeWeb,
			ScreenshotMethod:  "devtools",
			WindowEnumeration: false,
			Accessibility:     BackendDOM,
			DPIScale:          1.0,
		}
	}
	return resolveDesktop()
}

func resolveDesktop() Capabilities {
	caps := Capabilities{
		OS:       runtime.GOOS,
		Mode:     ModeDesktop,
		DPIScale: 1.0,
	}

	switch runtime.GOOS {
	case "darwin":
		caps.ScreenshotMethod = "screencapture"
		caps.WindowEnumeration = true
		caps.Accessibility = BackendAX
		if !hasCommand("screencapture") {
			caps.Notes = append(caps.Notes, "screencapture tool not found; capture may fail")
		}
		if os.Getenv("DOCUGEN_AX_DISABLED") != "" {
			caps.Accessibility = BackendNone
			caps.Notes = append(caps.Notes, "accessibility permission not granted; falling back to visual-only resolution")
		}
	case "windows":
		caps.ScreenshotMethod = "gdi"
		caps.WindowEnumeration = true
		caps.Accessibility = BackendUIA
	default:
		// Linux and everything else: screenshots via an external tool,
		// no accessibility backend.
		caps.WindowEnumeration = false
		switch {
		case hasCommand("gnome-screenshot"):
			caps.ScreenshotMethod = "gnome-screenshot"
		case hasCommand("import"):
			caps.ScreenshotMethod = "imagemagick-import"
		case hasCommand("scrot"):
			caps.ScreenshotMethod = "scrot"
		default:
			caps.ScreenshotMethod = "command"
			caps.Notes = append(caps.Notes, "no screenshot tool detected; configure capture.command")
		}
		caps.Notes = append(caps.Notes, "no accessibility backend on "+runtime.GOOS+"; element resolution uses visual inference")
	}

	return caps
}

func hasCommand(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
