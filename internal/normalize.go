package internal

// windowsControlTypeMap maps Windows UI Automation control types to the
// normalized role vocabulary.
var windowsControlTypeMap = map[string]string{
	"Button":      "button",
	"Edit":        "text_field",
	"Text":        "static_text",
	"Window":      "window",
	"Image":       "image",
	"CheckBox":    "checkbox",
	"RadioButton": "radio_button",
	"ComboBox":    "combo_box",
	"List":        "list",
	"ListItem":    "list_item",
	"MenuItem":    "menu_item",
	"MenuBar":     "menu_bar",
	"Menu":        "menu",
	"TabItem":     "tab",
	"Hyperlink":   "link",
	"Pane":        "pane",
	"Document":    "document",
	"ProgressBar": "progress_bar",
	"Slider":      "slider",
	"ScrollBar":   "scrollbar",
	"ToolBar":     "toolbar",
	"StatusBar":   "status_bar",
	"Tree":        "tree",
	"TreeItem":    "tree_item",
	"Table":       "table",
	"Header":      "header",
	"DataItem":    "data_item",
	"Group":       "group",
}

// macAXRoleMap maps macOS Accessibility API AX roles to the normalized role
// vocabulary.
var macAXRoleMap = map[string]string{
	"AXButton":            "button",
	"AXTextField":         "text_field",
	"AXTextArea":          "text_field",
	"AXStaticText":        "static_text",
	"AXWindow":            "window",
	"AXImage":             "image",
	"AXCheckBox":          "checkbox",
	"AXRadioButton":       "radio_button",
	"AXPopUpButton":       "combo_box",
	"AXComboBox":          "combo_box",
	"AXRow":               "list_item",
	"AXCell":              "list_item",
	"AXMenuItem":          "menu_item",
	"AXMenuBar":           "menu_bar",
	"AXMenu":              "menu",
	"AXTabGroup":          "tab",
	"AXRadioGroup":        "tab",
	"AXLink":              "link",
	"AXGroup":             "pane",
	"AXSplitGroup":        "pane",
	"AXScrollArea":        "scrollbar",
	"AXProgressIndicator": "progress_bar",
	"AXSlider":            "slider",
	"AXToolbar":           "toolbar",
	"AXTable":             "table",
	"AXOutline":           "tree",
	"AXList":              "list",
}

// htmlRoleMap maps DOM node names and ARIA roles (web mode) to the
// normalized vocabulary.
var htmlRoleMap = map[string]string{
	"button":      "button",
	"a":           "link",
	"link":        "link",
	"input":       "text_field",
	"textarea":    "text_field",
	"textbox":     "text_field",
	"select":      "combo_box",
	"combobox":    "combo_box",
	"checkbox":    "checkbox",
	"radio":       "radio_button",
	"img":         "image",
	"image":       "image",
	"li":          "list_item",
	"ul":          "list",
	"ol":          "list",
	"menuitem":    "menu_item",
	"menu":        "menu",
	"tab":         "tab",
	"table":       "table",
	"progressbar": "progress_bar",
	"slider":      "slider",
	"toolbar":     "toolbar",
}

// NormalizeWindowsRole maps a Windows UI Automation control type to a
// normalized role, or "unknown".
func NormalizeWindowsRole(controlType string) string {
	if role, ok := windowsControlTypeMap[controlType]; ok {
		return role
	}
	return "unknown"
}

// NormalizeMacRole maps a macOS AX role to a normalized role, or "unknown".
func NormalizeMacRole(axRole string) string {
	if role, ok := macAXRoleMap[axRole]; ok {
		return role
	}
	return "unknown"
}

// NormalizeHTMLRole maps an HTML node name or ARIA role to a normalized
// role, or "unknown".
func NormalizeHTMLRole(nodeOrRole string) string {
	if role, ok := htmlRoleMap[nodeOrRole]; ok {
		return role
	}
	return "unknown"
}

// AccessibilityConfidence scores the quality of a structured backend answer:
// 1.0 base, penalized for slow queries, fallback use, and denied
// permissions, clamped to [0,1].
func AccessibilityConfidence(queryLatencyMS float64, fallbackUsed bool, permissionDenied bool) float64 {
	score := 1.0
	if queryLatencyMS > 1000 {
		score -= 0.1
	}
	if fallbackUsed {
		score -= 0.2
	}
	if permissionDenied {
		score -= 0.3
	}
	if score < 0 {
		score = 0
	}
	return score
}
