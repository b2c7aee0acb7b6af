package capture

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/asachs01/claudeDocugen/internal"
)

// NewDesktopAccessibilityBackend returns the structured-metadata backend for
// the platform's accessibility API, or nil when the capabilities report
// none. Both backends go through the platform scripting bridge (osascript on
// macOS, PowerShell UI Automation on Windows) so no cgo is needed.
func NewDesktopAccessibilityBackend(caps internal.Capabilities) internal.AccessibilityBackend {
	switch caps.Accessibility {
	case internal.BackendAX:
		return &macAXBackend{}
	case internal.BackendUIA:
		return &uiaBackend{}
	}
	return nil
}

// elementReply is the pipe-delimited answer shared by both query scripts:
// role|flag|name|x|y|w|h. The name may itself contain pipes; coordinates are
// always the last four fields.
type elementReply struct {
	role   string
	flag   string
	name   string
	bounds internal.Rect
}

func parseElementReply(raw string) (elementReply, error) {
	fields := strings.Split(strings.TrimSpace(raw), "|")
	if len(fields) < 7 {
		return elementReply{}, fmt.Errorf("malformed element reply %q", raw)
	}

	coords := fields[len(fields)-4:]
	var nums [4]int
	for i, f := range coords {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return elementReply{}, fmt.Errorf("malformed element bounds %q", raw)
		}
		nums[i] = n
	}

	return elementReply{
		role: strings.TrimSpace(fields[0]),
		flag: strings.TrimSpace(fields[1]),
		name: strings.Join(fields[2:len(fields)-4], "|"),
		bounds: internal.Rect{
			X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3],
		},
	}, nil
}

// descriptor maps a reply onto the engine's element shape. Secure-input
// markers become the password input type so redaction scanning sees them.
func (r elementReply) descriptor(normalizedRole string) *internal.ElementDescriptor {
	desc := &internal.ElementDescriptor{
		Name:   r.name,
		Role:   normalizedRole,
		Bounds: r.bounds,
	}
	if r.flag == "AXSecureTextField" || r.flag == "password" {
		desc.InputType = "password"
	}
	return desc
}

// axQueryScript asks System Events for the frontmost process's focused UI
// element. A full element-at-point walk needs the AX C API; the focused
// element covers the click-driven recording flow, and answers whose bounds
// miss the click point are discarded below.
const axQueryScript = `tell application "System Events"
	set proc to first process whose frontmost is true
	set elem to value of attribute "AXFocusedUIElement" of proc
	set elemRole to role of elem
	set elemFlag to ""
	try
		set elemFlag to subrole of elem
	end try
	set elemName to ""
	try
		set elemName to name of elem
	end try
	set {px, py} to position of elem
	set {pw, ph} to size of elem
	return elemRole & "|" & elemFlag & "|" & elemName & "|" & px & "|" & py & "|" & pw & "|" & ph
end tell`

// macAXBackend queries the macOS Accessibility API through osascript.
// Requires accessibility permission for the terminal; a denied permission is
// surfaced as an error so the resolver falls through to visual inference.
type macAXBackend struct{}

func (b *macAXBackend) ElementAt(ctx context.Context, p internal.Point) (*internal.ElementDescriptor, error) {
	if p.X < 0 || p.Y < 0 {
		internal.LogWarn("invalid accessibility query coordinates (%d, %d)", p.X, p.Y)
		return nil, nil
	}

	start := time.Now()
	out, err := exec.CommandContext(ctx, "osascript", "-e", axQueryScript).CombinedOutput()
	latencyMS := float64(time.Since(start).Milliseconds())
	if err != nil {
		if strings.Contains(string(out), "assistive access") {
			quality := internal.AccessibilityConfidence(latencyMS, false, true)
			internal.LogWarn("accessibility permission denied (answer quality %.2f); grant access in System Settings", quality)
			return nil, fmt.Errorf("accessibility permission denied")
		}
		return nil, fmt.Errorf("osascript query failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	reply, err := parseElementReply(string(out))
	if err != nil {
		return nil, err
	}
	desc := reply.descriptor(internal.NormalizeMacRole(reply.role))

	// The focused element is a proxy for the clicked one; when its bounds
	// miss the click point the answer is about something else entirely.
	if !desc.Bounds.Contains(p) {
		quality := internal.AccessibilityConfidence(latencyMS, true, false)
		internal.LogDebug("focused element misses (%d, %d) (answer quality %.2f); deferring to visual", p.X, p.Y, quality)
		return nil, nil
	}
	internal.LogDebug("accessibility answer %q/%s (quality %.2f)", desc.Name, desc.Role, internal.AccessibilityConfidence(latencyMS, false, false))
	return desc, nil
}

// uiaQueryScript resolves the UI Automation element at a screen point. The
// two integer verbs receive the query coordinates.
const uiaQueryScript = `Add-Type -AssemblyName UIAutomationClient,UIAutomationTypes,WindowsBase
$p = New-Object System.Windows.Point(%d, %d)
$e = [System.Windows.Automation.AutomationElement]::FromPoint($p)
$r = $e.Current.ControlType.ProgrammaticName -replace '^ControlType\.', ''
$flag = ''
if ($e.Current.IsPassword) { $flag = 'password' }
$b = $e.Current.BoundingRectangle
"$r|$flag|$($e.Current.Name)|$([int]$b.X)|$([int]$b.Y)|$([int]$b.Width)|$([int]$b.Height)"`

// uiaBackend queries Windows UI Automation through PowerShell.
type uiaBackend struct{}

func (b *uiaBackend) ElementAt(ctx context.Context, p internal.Point) (*internal.ElementDescriptor, error) {
	if p.X < 0 || p.Y < 0 {
		internal.LogWarn("invalid accessibility query coordinates (%d, %d)", p.X, p.Y)
		return nil, nil
	}

	start := time.Now()
	script := fmt.Sprintf(uiaQueryScript, p.X, p.Y)
	out, err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script).CombinedOutput()
	latencyMS := float64(time.Since(start).Milliseconds())
	if err != nil {
		return nil, fmt.Errorf("ui automation query failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}

	reply, err := parseElementReply(string(out))
	if err != nil {
		return nil, err
	}
	desc := reply.descriptor(internal.NormalizeWindowsRole(reply.role))
	internal.LogDebug("accessibility answer %q/%s (quality %.2f)", desc.Name, desc.Role, internal.AccessibilityConfidence(latencyMS, false, false))
	return desc, nil
}

var _ internal.AccessibilityBackend = (*macAXBackend)(nil)
var _ internal.AccessibilityBackend = (*uiaBackend)(nil)
