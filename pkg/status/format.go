package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	statusWidth = 15 // Width for status text
)

// 🎯 FormatEntry formats one status row
func FormatEntry(e Entry) string {
	var prefix string
	switch e.Status {
	case StatusRemoteOnly:
		prefix = color.GreenString("+")
	case StatusChanged:
		prefix = color.YellowString("⟳")
	case StatusLocalOnly:
		prefix = color.RedString("?")
	default:
		prefix = color.HiBlackString("=")
	}

	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		fmt.Sprintf("%-*s", nameWidth, e.Name),
		fmt.Sprintf("%-*s", statusWidth, e.Status),
	)
}

// FormatCounts renders a one-line summary
func FormatCounts(c Counts) string {
	if c.InSync() {
		return fmt.Sprintf("✅ In sync (%d unchanged)", c.Unchanged)
	}
	return fmt.Sprintf("📊 %d remote-only, %d local-only, %d changed, %d unchanged",
		c.RemoteOnly, c.LocalOnly, c.Changed, c.Unchanged)
}
