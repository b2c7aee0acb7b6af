package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asachs01/claudeDocugen/internal"
	"github.com/asachs01/claudeDocugen/internal/capture"
	"github.com/asachs01/claudeDocugen/internal/vision"
)

var (
	recordMode  string
	recordTitle string
	recordURL   string
	recordOut   string
	noVision    bool
)

var (
	recordHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212"))

	stepCommitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	stepSkipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))
)

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:   "record [request]",
	Short: "Record a workflow session",
	Long: `Record a workflow: perform each action, then describe it on stdin.

Every line you enter triggers a capture-and-compare cycle:

  <description>          capture; commit a step if the screen changed
  @x,y <description>     same, resolving the element at pixel (x, y)
  ! <description>        force-commit even without a visible change
  done                   seal the session and save it

The mode (web or desktop) is inferred from the request text; pass --mode
to override. Web mode drives a headless browser at --url.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if recordURL != "" {
			cfg.Capture.URL = recordURL
		}
		if recordOut != "" {
			cfg.Capture.OutputDir = recordOut
		}

		request := strings.Join(args, " ")
		mode, err := pickMode(request)
		if err != nil {
			return err
		}

		title := recordTitle
		if title == "" {
			title = request
		}

		ctx := cmd.Context()
		caps := internal.ResolveCapabilities(mode)

		var capturer internal.Capturer
		var ax internal.AccessibilityBackend
		if mode == internal.ModeWeb {
			web, err := capture.NewWebCapturer(ctx, cfg.Capture.URL)
			if err != nil {
				return err
			}
			defer func() { _ = web.Close() }()
			capturer = web
			ax = web
		} else {
			desktop, err := capture.NewDesktopCapturer(cfg.Capture)
			if err != nil {
				return err
			}
			capturer = desktop
			ax = capture.NewDesktopAccessibilityBackend(caps)
		}

		var oracle internal.VisionOracle
		if !noVision {
			o, err := vision.NewOracle(cfg.Vision)
			if err != nil {
				internal.LogWarn("visual inference disabled: %v", err)
			} else {
				oracle = o
			}
		}

		resolver := internal.NewElementResolver(ax, oracle, cfg.Resolver)
		stdin := bufio.NewScanner(os.Stdin)
		confirm := func(prompt string) bool {
			fmt.Print(promptStyle.Render(prompt + " [y/N] "))
			if !stdin.Scan() {
				return false
			}
			answer := strings.ToLower(strings.TrimSpace(stdin.Text()))
			return answer == "y" || answer == "yes"
		}

		recorder, err := internal.NewRecorder(cfg, mode, title, capturer, resolver, caps, confirm)
		if err != nil {
			return err
		}
		if err := recorder.Begin(ctx); err != nil {
			return err
		}

		fmt.Println(recordHeaderStyle.Render(fmt.Sprintf("Recording session %s (%s mode)", recorder.SessionID()[:8], mode)))
		fmt.Println(stepSkipStyle.Render("Perform an action, then describe it. Enter 'done' to finish."))

		for {
			fmt.Print(promptStyle.Render("> "))
			if !stdin.Scan() {
				break
			}
			line := strings.TrimSpace(stdin.Text())
			if line == "" {
				continue
			}
			if line == "done" || line == "quit" {
				break
			}

			description, click, force := parseStepLine(line)
			step, err := recorder.Step(ctx, description, click, force)
			if err != nil {
				internal.LogError("step failed: %v", err)
				continue
			}
			if step == nil {
				fmt.Println(stepSkipStyle.Render("  no visible change; use '! <description>' to record anyway"))
				continue
			}
			fmt.Println(stepCommitStyle.Render(fmt.Sprintf("  step %d recorded (similarity %.3f)", step.Sequence, step.Similarity)))
			if step.Element != nil && step.Element.Provenance != internal.ProvenanceUnresolved {
				fmt.Println(stepSkipStyle.Render(fmt.Sprintf("  element: %s (%s, via %s)", step.Element.Name, step.Element.Role, step.Element.Provenance)))
			}
		}

		session, err := recorder.Finish()
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		if err := store.SaveSession(session); err != nil {
			return err
		}

		fmt.Println(recordHeaderStyle.Render(fmt.Sprintf("Saved session %s with %d step(s)", session.ID[:8], session.StepCount())))
		return nil
	},
}

// pickMode resolves the session mode from the flag or the request text.
func pickMode(request string) (internal.Mode, error) {
	if recordMode != "" {
		mode := internal.Mode(recordMode)
		if !mode.Valid() {
			return "", &internal.ConfigError{Field: "mode", Value: recordMode, Msg: "must be web or desktop"}
		}
		return mode, nil
	}
	mode := internal.DetectMode(request)
	if mode == internal.ModeAmbiguous {
		return "", fmt.Errorf("cannot tell whether %q is a web or desktop workflow; pass --mode", request)
	}
	return mode, nil
}

// parseStepLine splits the interactive grammar: an optional "!" force
// prefix and an optional "@x,y" click coordinate.
func parseStepLine(line string) (description string, click *internal.Point, force bool) {
	if strings.HasPrefix(line, "!") {
		force = true
		line = strings.TrimSpace(strings.TrimPrefix(line, "!"))
	}
	if strings.HasPrefix(line, "@") {
		rest := strings.TrimPrefix(line, "@")
		coords := rest
		if i := strings.IndexByte(rest, ' '); i >= 0 {
			coords = rest[:i]
			line = strings.TrimSpace(rest[i+1:])
		} else {
			line = ""
		}
		var p internal.Point
		if _, err := fmt.Sscanf(coords, "%d,%d", &p.X, &p.Y); err == nil {
			click = &p
		} else {
			internal.LogWarn("ignoring malformed coordinate %q", coords)
		}
	}
	return line, click, force
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVar(&recordMode, "mode", "", "Session mode: web or desktop (default: inferred from request)")
	recordCmd.Flags().StringVar(&recordTitle, "title", "", "Session title (default: the request text)")
	recordCmd.Flags().StringVar(&recordURL, "url", "", "Page to open in web mode")
	recordCmd.Flags().StringVar(&recordOut, "output-dir", "", "Directory for per-step screenshot PNGs")
	recordCmd.Flags().BoolVar(&noVision, "no-vision", false, "Disable visual element inference")
}
