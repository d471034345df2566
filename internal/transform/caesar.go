package transform

const alphabetSize = 26

// NormalizeShift reduces an arbitrary shift to the equivalent rotation in
// [0, 25]. True modulo, so negative shifts wrap the same way positive ones do.
func NormalizeShift(shift int) int {
	return ((shift % alphabetSize) + alphabetSize) % alphabetSize
}

// EncryptCaesar rotates every unaccented Latin letter in text forward by
// shift positions within its case's alphabet. Every other rune (digits,
// punctuation, whitespace, non-Latin scripts, accented letters) passes
// through unchanged, so the output always has the same rune count as the
// input.
func EncryptCaesar(text string, shift int) string {
	norm := NormalizeShift(shift)
	out := make([]rune, 0, len(text))
	for _, r := range text {
		out = append(out, shiftRune(r, norm))
	}
	return string(out)
}

// DecryptCaesar reverses EncryptCaesar for the same shift value.
func DecryptCaesar(text string, shift int) string {
	norm := NormalizeShift(shift)
	return EncryptCaesar(text, (alphabetSize-norm)%alphabetSize)
}

func shiftRune(r rune, norm int) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return 'a' + (r-'a'+rune(norm))%alphabetSize
	case r >= 'A' && r <= 'Z':
		return 'A' + (r-'A'+rune(norm))%alphabetSize
	default:
		return r
	}
}
