package capture

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/asachs01/claudeDocugen/internal"
)

// DesktopCapturer shells out to a platform screenshot command. The command
// template contains a "%s" placeholder for the output PNG path; an empty
// template selects a platform default at construction.
type DesktopCapturer struct {
	command string
	tmpDir  string
}

// NewDesktopCapturer builds a capturer around the configured (or detected)
// screenshot command. Fails up front when no command is available; a session
// that cannot capture should not start.
func NewDesktopCapturer(cfg internal.CaptureConfig) (*DesktopCapturer, error) {
	command := cfg.Command
	if command == "" {
		command = defaultScreenshotCommand()
	}
	if command == "" {
		return nil, fmt.Errorf("no screenshot command available on %s; set capture.command", runtime.GOOS)
	}
	if !strings.Contains(command, "%s") {
		return nil, fmt.Errorf("screenshot command %q has no output placeholder", command)
	}
	return &DesktopCapturer{command: command, tmpDir: os.TempDir()}, nil
}

// TakeScreenshot runs the screenshot command into a temp file and decodes
// the result. The temp file is removed before returning.
func (d *DesktopCapturer) TakeScreenshot(ctx context.Context) (*internal.Screenshot, error) {
	out, err := os.CreateTemp(d.tmpDir, "docugen-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := out.Name()
	out.Close()
	defer os.Remove(path)

	parts := strings.Fields(fmt.Sprintf(d.command, path))
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("screenshot command failed: %w (%s)", err, strings.TrimSpace(string(output)))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("screenshot command produced no file: %w", err)
	}
	return FromPNG(data, internal.RegionFullScreen)
}

// defaultScreenshotCommand picks the platform screenshot tool, preferring
// whatever is actually installed.
func defaultScreenshotCommand() string {
	switch runtime.GOOS {
	case "darwin":
		return "screencapture -x %s"
	case "linux":
		for _, c := range []struct{ bin, tmpl string }{
			{"gnome-screenshot", "gnome-screenshot -f %s"},
			{"import", "import -window root %s"},
			{"scrot", "scrot %s"},
		} {
			if _, err := exec.LookPath(c.bin); err == nil {
				return c.tmpl
			}
		}
	}
	return ""
}

var _ internal.Capturer = (*DesktopCapturer)(nil)
var _ internal.Capturer = (*WebCapturer)(nil)
var _ internal.AccessibilityBackend = (*WebCapturer)(nil)

// FileCapturer replays screenshots from a directory of PNG files in
// lexical order. Used for offline sessions and tests.
type FileCapturer struct {
	paths []string
	next  int
}

// NewFileCapturer lists the PNG files under dir.
func NewFileCapturer(dir string) (*FileCapturer, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no PNG files in %s", dir)
	}
	return &FileCapturer{paths: paths}, nil
}

// TakeScreenshot returns the next file's contents. The last file repeats
// once the sequence is exhausted.
func (f *FileCapturer) TakeScreenshot(ctx context.Context) (*internal.Screenshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i := f.next
	if i >= len(f.paths) {
		i = len(f.paths) - 1
	} else {
		f.next++
	}
	data, err := os.ReadFile(f.paths[i])
	if err != nil {
		return nil, err
	}
	return FromPNG(data, internal.RegionFullScreen)
}
