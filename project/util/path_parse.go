package util

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandUser replaces a leading ~ or ~name with that user's home directory.
func ExpandUser(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	slashIndex := strings.Index(path, "/")
	if slashIndex == -1 {
		slashIndex = len(path)
	}

	username := path[1:slashIndex]
	var homedir string

	switch {
	case username == "":
		if home, err := os.UserHomeDir(); err == nil {
			homedir = home
		}
	default:
		if u, err := user.Lookup(username); err == nil {
			homedir = u.HomeDir
		}
	}

	if homedir == "" {
		return path
	}

	return filepath.Join(homedir, path[slashIndex:])
}

// ResolvePath expands ~ and anchors a relative path at base, usually the
// directory of the config file. Empty stays empty.
func ResolvePath(base, path string) string {
	if path == "" {
		return ""
	}
	path = ExpandUser(path)
	if !filepath.IsAbs(path) && base != "" {
		path = filepath.Join(base, path)
	}
	return filepath.Clean(path)
}
