package internal

import "regexp"

// ModeAmbiguous is returned by DetectMode when a request carries no clear
// web or desktop signal; the caller should ask the operator.
const ModeAmbiguous Mode = "ambiguous"

var urlPattern = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)

var desktopKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bdesktop\b`),
	regexp.MustCompile(`(?i)\bnative\s+app\b`),
	regexp.MustCompile(`(?i)\binstalled\s+software\b`),
	regexp.MustCompile(`(?i)\bdesktop\s+(software|application)\b`),
	regexp.MustCompile(`(?i)\bsystem\s+(preferences?|settings?)\b`),
	regexp.MustCompile(`(?i)\bfinder\b`),
	regexp.MustCompile(`(?i)\bexplorer\b`),
	regexp.MustCompile(`(?i)\btaskbar\b`),
	regexp.MustCompile(`(?i)\bstart\s+menu\b`),
	regexp.MustCompile(`(?i)\b(windows|macos)\s+application\b`),
	regexp.MustCompile(`(?i)\b(photoshop|excel|word|vs\s*code|terminal|iterm|slack|discord|spotify)\b`),
	regexp.MustCompile(`(?i)\b(capture|record)\s+desktop\b`),
	regexp.MustCompile(`(?i)\bnative\s+ui\b`),
}

var webKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bwebsite\b`),
	regexp.MustCompile(`(?i)\bweb\s+(app|portal|interface)\b`),
	regexp.MustCompile(`(?i)\bbrowser\b`),
	regexp.MustCompile(`(?i)\blogin\s+page\b`),
	regexp.MustCompile(`(?i)\bdashboard\b`),
	regexp.MustCompile(`(?i)\bonline\b`),
	regexp.MustCompile(`(?i)\burl\b`),
	regexp.MustCompile(`(?i)http`),
}

// DetectMode classifies a natural-language documentation request as web or
// desktop. An explicit URL always wins; otherwise keyword scoring decides,
// biased toward desktop on ties. Requests with no signal are ambiguous.
func DetectMode(request string) Mode {
	if urlPattern.MatchString(request) {
		return ModeWeb
	}

	desktopScore := 0
	for _, p := range desktopKeywords {
		if p.MatchString(request) {
			desktopScore++
		}
	}
	webScore := 0
	for _, p := range webKeywords {
		if p.MatchString(request) {
			webScore++
		}
	}

	switch {
	case desktopScore > 0 && webScore == 0:
		return ModeDesktop
	case webScore > 0 && desktopScore == 0:
		return ModeWeb
	case desktopScore > 0 && webScore > 0:
		if desktopScore >= webScore {
			return ModeDesktop
		}
		return ModeWeb
	}
	return ModeAmbiguous
}
