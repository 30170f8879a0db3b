package input

import (
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Key names are the lowercase ebiten names with the arrow and digit
// prefixes dropped: "a", "space", "left", "7", "shiftleft".

var (
	keyNames  = map[ebiten.Key]string{}
	keyByName = map[string]ebiten.Key{}
)

func init() {
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		raw := strings.ToLower(k.String())
		if raw == "" {
			continue
		}
		name := raw
		switch {
		case strings.HasPrefix(raw, "arrow"):
			name = strings.TrimPrefix(raw, "arrow")
		case strings.HasPrefix(raw, "digit"):
			name = strings.TrimPrefix(raw, "digit")
		}
		keyNames[k] = name
		keyByName[name] = k
		keyByName[raw] = k
	}
}

// KeyName returns the name used in events and held-key sets.
func KeyName(k ebiten.Key) string {
	return keyNames[k]
}

// KeyByName resolves a key name, accepting ebiten's spelling too.
func KeyByName(name string) (ebiten.Key, bool) {
	k, ok := keyByName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// KeyNames lists every canonical key name, sorted.
func KeyNames() []string {
	out := make([]string, 0, len(keyNames))
	for _, n := range keyNames {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

var buttons = []struct {
	button ebiten.MouseButton
	name   string
}{
	{ebiten.MouseButtonLeft, "left"},
	{ebiten.MouseButtonRight, "right"},
	{ebiten.MouseButtonMiddle, "middle"},
	{ebiten.MouseButton3, "back"},
	{ebiten.MouseButton4, "forward"},
}

func ButtonName(b ebiten.MouseButton) string {
	for _, e := range buttons {
		if e.button == b {
			return e.name
		}
	}
	return ""
}

func ButtonByName(name string) (ebiten.MouseButton, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range buttons {
		if e.name == name {
			return e.button, true
		}
	}
	return 0, false
}
