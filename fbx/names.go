package fbx

import "strings"

const fullNameSeparator = "\x00\x01"
const asciiNameSeparator = "::"

// MakeFullName joins display and class names the way object names are stored.
// Anything after first zero byte of display is dropped, so encoding twice is safe.
func MakeFullName(display, class string) string {
	if i := strings.IndexByte(display, 0); i >= 0 {
		display = display[:i]
	}
	return display + fullNameSeparator + class
}

// SplitFullName returns display and class names.
// ok is false and display holds whole string when there is no class part.
func SplitFullName(full string) (display, class string, ok bool) {
	i := strings.Index(full, fullNameSeparator)
	if i < 0 {
		return full, "", false
	}
	return full[:i], full[i+len(fullNameSeparator):], true
}

func IsFullName(s string) bool {
	return strings.Contains(s, fullNameSeparator)
}

func DisplayName(full string) string {
	d, _, _ := SplitFullName(full)
	return d
}

func ClassName(full string) string {
	_, c, _ := SplitFullName(full)
	return c
}

// ASCIIName renders full name as "Class::Display"
func ASCIIName(full string) string {
	d, c, ok := SplitFullName(full)
	if !ok {
		return full
	}
	return c + asciiNameSeparator + d
}

// ParseASCIIName is inverse of ASCIIName
func ParseASCIIName(s string) string {
	i := strings.Index(s, asciiNameSeparator)
	if i < 0 {
		return s
	}
	return MakeFullName(s[i+len(asciiNameSeparator):], s[:i])
}
