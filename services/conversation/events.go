package conversation

import "strings"

// Selection is a parsed option payload. The transport echoes back the opaque
// Data string of a RenderOption; it always has the shape "name:arg".
type Selection struct {
	Name string
	Arg  string
}

func ParseSelection(data string) Selection {
	name, arg, found := strings.Cut(data, ":")
	if !found {
		return Selection{Name: data}
	}
	return Selection{Name: name, Arg: arg}
}

func selectionData(name, arg string) string {
	return name + ":" + arg
}

// exitKeywords abandon whatever flow is in progress when typed as a whole
// message.
var exitKeywords = map[string]bool{
	"cancelar": true,
	"salir":    true,
	"menu":     true,
	"menú":     true,
	"no":       true,
}

func isExitKeyword(text string) bool {
	return exitKeywords[strings.ToLower(strings.TrimSpace(text))]
}
