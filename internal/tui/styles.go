package tui

import "github.com/charmbracelet/lipgloss"

// palette is one color theme.
type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	accent    lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	error     lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
}

const (
	themeDark  = "dark"
	themeLight = "light"
)

var palettes = map[string]palette{
	themeDark: {
		primary:   lipgloss.Color("#6C63FF"),
		secondary: lipgloss.Color("#2EC4B6"),
		accent:    lipgloss.Color("#FF6B6B"),
		muted:     lipgloss.Color("#666666"),
		success:   lipgloss.Color("#2ECC71"),
		warning:   lipgloss.Color("#F39C12"),
		error:     lipgloss.Color("#E74C3C"),
		fg:        lipgloss.Color("#C0CAF5"),
		subtle:    lipgloss.Color("#414868"),
		highlight: lipgloss.Color("#7AA2F7"),
	},
	themeLight: {
		primary:   lipgloss.Color("#4B44C8"),
		secondary: lipgloss.Color("#1A8C82"),
		accent:    lipgloss.Color("#D64545"),
		muted:     lipgloss.Color("#8A8A8A"),
		success:   lipgloss.Color("#1E8E4E"),
		warning:   lipgloss.Color("#B86E00"),
		error:     lipgloss.Color("#C0392B"),
		fg:        lipgloss.Color("#24283B"),
		subtle:    lipgloss.Color("#C8CCD8"),
		highlight: lipgloss.Color("#2E5CB8"),
	},
}

// Styles, rebuilt by applyTheme.
var (
	colorPrimary lipgloss.Color

	// Tabs
	activeTabStyle   lipgloss.Style
	inactiveTabStyle lipgloss.Style

	// Panels
	panelStyle       lipgloss.Style
	activePanelStyle lipgloss.Style
	toastStyle       lipgloss.Style

	// Progress bar
	barFilledStyle lipgloss.Style
	barEmptyStyle  lipgloss.Style

	// Text
	titleStyle     lipgloss.Style
	subtitleStyle  lipgloss.Style
	accentStyle    lipgloss.Style
	successStyle   lipgloss.Style
	warningStyle   lipgloss.Style
	errorStyle     lipgloss.Style
	mutedStyle     lipgloss.Style
	highlightStyle lipgloss.Style

	// Header/footer
	headerStyle lipgloss.Style
	footerStyle lipgloss.Style
	bannerStyle lipgloss.Style

	// List items
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
)

func init() {
	applyTheme(themeDark)
}

// applyTheme rebuilds every style from the named palette and returns the
// theme actually applied. Unknown names fall back to dark.
func applyTheme(name string) string {
	p, ok := palettes[name]
	if !ok {
		name = themeDark
		p = palettes[name]
	}
	colorPrimary = p.primary

	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.primary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(p.primary).
		Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(p.muted).
		Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.subtle).
		Padding(1, 2)
	activePanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.primary).
		Padding(1, 2)
	toastStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.success).
		Padding(0, 2)

	barFilledStyle = lipgloss.NewStyle().Foreground(p.secondary)
	barEmptyStyle = lipgloss.NewStyle().Foreground(p.subtle)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.fg)
	subtitleStyle = lipgloss.NewStyle().Foreground(p.muted)
	accentStyle = lipgloss.NewStyle().Foreground(p.accent)
	successStyle = lipgloss.NewStyle().Foreground(p.success)
	warningStyle = lipgloss.NewStyle().Foreground(p.warning)
	errorStyle = lipgloss.NewStyle().Foreground(p.error)
	mutedStyle = lipgloss.NewStyle().Foreground(p.muted)
	highlightStyle = lipgloss.NewStyle().Foreground(p.highlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1)
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(p.error)

	selectedItemStyle = lipgloss.NewStyle().Foreground(p.primary).Bold(true)
	normalItemStyle = lipgloss.NewStyle().Foreground(p.fg)

	return name
}

func otherTheme(name string) string {
	if name == themeLight {
		return themeDark
	}
	return themeLight
}
