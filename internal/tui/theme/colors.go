package theme

// Terminal-compatible color constants using ANSI standard colors
// These colors work consistently across different terminal themes
const (
	// Primary colors (ANSI standard)
	ColorWhite        = "#FFFFFF" // ANSI 15 - primary text
	ColorBrightBlack  = "#808080" // ANSI 8 - secondary text
	ColorBrightBlue   = "#5C7CFA" // ANSI 12 - primary accent
	ColorBrightCyan   = "#51CF66" // ANSI 14 - secondary accent
	ColorBrightGreen  = "#51CF66" // ANSI 10 - success/links
	ColorBrightYellow = "#FFD43B" // ANSI 11 - warning
	ColorBrightRed    = "#FF6B6B" // ANSI 9 - error

	// Listing row colors
	ColorDirectory    = "#74C0FC" // Light blue - directory prefixes
	ColorCompressed   = "#B197FC" // Light purple - delta-compressed objects
	ColorUncompressed = "#FFFFFF" // White - plain objects
	ColorSavings      = "#69DB7C" // Light green - savings percentages
)

// GetRowColor returns the color for a listing row
func GetRowColor(isDirectory, compressed bool) string {
	switch {
	case isDirectory:
		return ColorDirectory
	case compressed:
		return ColorCompressed
	default:
		return ColorUncompressed
	}
}

// GetMessageColor returns the color for a given message type
func GetMessageColor(messageType int) string {
	const (
		MessageError = iota
		MessageSuccess
		MessageWarning
		MessageInfo
	)

	switch messageType {
	case MessageError:
		return ColorBrightRed
	case MessageSuccess:
		return ColorBrightGreen
	case MessageWarning:
		return ColorBrightYellow
	default: // MessageInfo
		return ColorBrightCyan
	}
}

// GetMessageIcon returns the icon for a given message type
func GetMessageIcon(messageType int) string {
	const (
		MessageError = iota
		MessageSuccess
		MessageWarning
		MessageInfo
	)

	switch messageType {
	case MessageError:
		return "❌ "
	case MessageSuccess:
		return "✅ "
	case MessageWarning:
		return "⚠️ "
	default: // MessageInfo
		return "ℹ️ "
	}
}
