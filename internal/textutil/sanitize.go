package textutil

// formattingRunes are bidi and zero-width characters that would reorder or hide
// document text on a terminal.
var formattingRunes = map[rune]struct{}{
	0x061C: {}, 0x200B: {}, 0x200C: {}, 0x200D: {}, 0x200E: {}, 0x200F: {},
	0x202A: {}, 0x202B: {}, 0x202C: {}, 0x202D: {}, 0x202E: {},
	0x2028: {}, 0x2029: {}, 0x00AD: {}, 0x180E: {}, 0x2060: {},
	0x2066: {}, 0x2067: {}, 0x2068: {}, 0x2069: {},
	0x206A: {}, 0x206B: {}, 0x206C: {}, 0x206D: {}, 0x206E: {}, 0x206F: {},
	0xFEFF: {},
}

// SanitizeCluster makes a grapheme cluster safe to draw in one terminal cell
// run. Control characters become '?', formatting runes become '·'. The second
// result reports whether the cluster was rewritten.
func SanitizeCluster(cluster string) (string, bool) {
	for _, r := range cluster {
		if requiresSanitization(r) {
			return sanitize(cluster), true
		}
	}
	return cluster, false
}

func requiresSanitization(r rune) bool {
	if isFormattingRune(r) {
		return true
	}
	return (r >= 0 && r < 0x20) || r == 0x7f
}

func sanitize(text string) string {
	out := make([]rune, 0, len(text))
	for _, r := range text {
		switch {
		case isFormattingRune(r):
			out = append(out, '·')
		case r < 0x20 || r == 0x7f:
			out = append(out, '?')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

func isFormattingRune(r rune) bool {
	_, ok := formattingRunes[r]
	return ok
}

// SanitizeText applies SanitizeCluster rules to a whole string.
func SanitizeText(text string) string {
	for _, r := range text {
		if requiresSanitization(r) {
			return sanitize(text)
		}
	}
	return text
}
