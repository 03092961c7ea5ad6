package app

import (
	"os"
	"strings"
)

// MaxFilenameLength leaves headroom below the usual 255 character limit for
// a path component.
const MaxFilenameLength = 220

// SafeFilename shortens name to at most MaxFilenameLength characters,
// keeping its extension. Names already within the limit are returned as is.
func SafeFilename(name string) string {
	runes := []rune(name)
	if len(runes) <= MaxFilenameLength {
		return name
	}

	base, ext := splitExt(runes)
	available := MaxFilenameLength - len(ext)
	if available < 0 {
		// extension alone is over budget
		return string(ext[:MaxFilenameLength])
	}
	return string(base[:available]) + string(ext)
}

// splitExt splits at the last period of the final path element. Leading
// periods of that element never start an extension, so ".bashrc" has none.
func splitExt(name []rune) (base, ext []rune) {
	start := 0
	for i, r := range name {
		if r < 0x80 && os.IsPathSeparator(uint8(r)) {
			start = i + 1
		}
	}
	dot := -1
	for i := len(name) - 1; i >= start; i-- {
		if name[i] == '.' {
			dot = i
			break
		}
	}
	if dot == -1 {
		return name, nil
	}
	if strings.Trim(string(name[start:dot]), ".") == "" {
		return name, nil
	}
	return name[:dot], name[dot:]
}
