package scanner

func IsAlpha(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsHex(b byte) bool {
	return IsDigit(b) || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

func IsCtrl(b byte) bool {
	return b < 32
}

// IsSpace reports whether b is JSON insignificant whitespace.
func IsSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
