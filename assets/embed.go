package assets

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

//go:embed builtin
var builtinFS embed.FS

// Builtin returns the images and sounds shipped with the library, rooted so
// that "ball.png" resolves directly.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(err)
	}
	return sub
}

// cleanAssetPath maps user paths onto embedded-FS keys: slashes are
// normalised, a leading assets/ or builtin/ is dropped, and absolute paths
// keep only what follows their last /assets/ element.
func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if filepath.IsAbs(path) || strings.HasPrefix(s, "/") {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s = strings.TrimPrefix(s, "./")
	s = strings.TrimPrefix(s, "assets/")
	s = strings.TrimPrefix(s, "builtin/")
	return s
}
