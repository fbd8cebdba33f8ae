package corpus

// splitText splits text into overlapping windows of at most size runes.
// Consecutive windows share exactly overlap runes. Text no longer than
// size yields a single window. Requires overlap < size.
func splitText(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	var out []string
	for start := 0; start == 0 || start+overlap < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}
