package habit

// Icon is the enumerated symbol shown next to a habit. Tags that do not name
// a known icon map to IconFallback.
type Icon int

const (
	IconFallback Icon = iota
	IconCircle
	IconDroplet
	IconActivity
	IconBook
)

// Icons lists the selectable icons in display order.
var Icons = []Icon{IconCircle, IconDroplet, IconActivity, IconBook}

var iconTags = map[string]Icon{
	"circle":   IconCircle,
	"droplet":  IconDroplet,
	"activity": IconActivity,
	"book":     IconBook,
}

func ParseIcon(tag string) Icon {
	if i, ok := iconTags[tag]; ok {
		return i
	}
	return IconFallback
}

func (i Icon) String() string {
	switch i {
	case IconCircle:
		return "circle"
	case IconDroplet:
		return "droplet"
	case IconActivity:
		return "activity"
	case IconBook:
		return "book"
	}
	return "unknown"
}

// Glyph is the terminal symbol for the icon.
func (i Icon) Glyph() string {
	switch i {
	case IconCircle:
		return "○"
	case IconDroplet:
		return "💧"
	case IconActivity:
		return "⚡"
	case IconBook:
		return "📖"
	}
	return "◆"
}
