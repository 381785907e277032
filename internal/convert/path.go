package convert

import "strings"

// WindowsPath is a path recorded by the acquisition software. It always uses
// Windows separators regardless of the host the worklist is read on.
type WindowsPath string

// AsPath trims s and returns it as a WindowsPath, or nil when s is blank.
func AsPath(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return WindowsPath(s)
}

// Base returns the final element of the path, accepting either separator.
func (p WindowsPath) Base() string {
	s := strings.TrimRight(string(p), `\/`)
	if i := strings.LastIndexAny(s, `\/`); i >= 0 {
		s = s[i+1:]
	}
	if len(s) == 2 && s[1] == ':' {
		return ""
	}
	return s
}

func (p WindowsPath) String() string {
	return string(p)
}
