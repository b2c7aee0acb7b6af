package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asachs01/claudeDocugen/internal"
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	stepHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			Padding(0, 1)

	stepDetailStyle = lipgloss.NewStyle().
			Padding(0, 2)

	redactionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Padding(0, 2)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the steps of a recorded session",
	Long:  `Display the steps, resolved elements, and redaction flags of a recorded session.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		defer func() { _ = store.Close() }()

		session, err := store.LoadSession(args[0])
		if err != nil {
			return err
		}

		displaySession(session)
		return nil
	},
}

func displaySession(session *internal.Session) {
	title := session.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Println(sessionHeaderStyle.Render(title))
	fmt.Println(sessionMetaStyle.Render(fmt.Sprintf(
		"%s · %s mode · %d step(s) · recorded %s",
		session.ID[:8], session.Mode, session.StepCount(),
		session.StartedAt.Format("2006-01-02 15:04"))))

	if session.Capabilities.HasAccessibility() {
		fmt.Println(sessionMetaStyle.Render("accessibility backend: " + string(session.Capabilities.Accessibility)))
	}
	for _, note := range session.Capabilities.Notes {
		fmt.Println(sessionMetaStyle.Render("note: " + note))
	}

	for i := range session.Steps {
		step := &session.Steps[i]
		marker := ""
		if step.DetectionMethod == internal.DetectionManual {
			marker = " (manual)"
		}
		fmt.Println(stepHeaderStyle.Render(fmt.Sprintf("Step %d%s: %s", step.Sequence, marker, step.Description)))

		if step.DetectionMethod == internal.DetectionSimilarity {
			fmt.Println(stepDetailStyle.Render(fmt.Sprintf("similarity %.3f", step.Similarity)))
		}
		if elem := step.Element; elem != nil {
			switch elem.Provenance {
			case internal.ProvenanceUnresolved:
				fmt.Println(stepDetailStyle.Render(fmt.Sprintf("element: unresolved, near (%d, %d)", elem.Bounds.X, elem.Bounds.Y)))
			case internal.ProvenanceVisual:
				fmt.Println(stepDetailStyle.Render(fmt.Sprintf("element: %s (%s, visual, confidence %.2f)", elem.Name, elem.Role, elem.Confidence)))
			default:
				fmt.Println(stepDetailStyle.Render(fmt.Sprintf("element: %s (%s, %s)", elem.Name, elem.Role, elem.Provenance)))
			}
		}
		for _, flag := range step.Redactions {
			status := "pending review"
			if flag.Approved {
				status = "approved"
			}
			fmt.Println(redactionStyle.Render(fmt.Sprintf("redact %s region (%s)", flag.Reason, status)))
		}
		if step.AfterPath != "" {
			fmt.Println(stepDetailStyle.Render("screenshot: " + step.AfterPath))
		}
		fmt.Println()
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
