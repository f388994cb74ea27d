package util

func IsNumber(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsUnderScore(b byte) bool {
	return b == '_'
}

func IsLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func IsLetterOrUnderscore(b byte) bool {
	return IsLetter(b) || IsUnderScore(b)
}

func IsLetterOrUnderscoreOrNumber(b byte) bool {
	return IsLetter(b) || IsUnderScore(b) || IsNumber(b)
}

// IsSymbolStart reports whether b can start a symbol written in vm code.
// '$' is left out so that generated labels never clash with user ones.
func IsSymbolStart(b byte) bool {
	return IsLetterOrUnderscore(b) || b == '.' || b == ':'
}

func IsSymbolChar(b byte) bool {
	return IsLetterOrUnderscoreOrNumber(b) || b == '.' || b == ':' || b == '$'
}

// IsSymbol reports whether s is a symbol usable both in vm code and in the
// generated hack assembler code.
func IsSymbol(s string) bool {
	if len(s) == 0 || !IsSymbolStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !IsSymbolChar(s[i]) {
			return false
		}
	}
	return true
}
