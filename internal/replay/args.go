package replay

import (
	"fmt"
	"strings"
)

// Args is the parsed form of an xgen_args string such as
//
//	-patch pPlane1 -file caches/ -file extra/*.xgpc -frame 1
//
// Every -file value is a cache dump, a directory of dumps or a glob.
// Bare tokens are treated as -file values.
type Args struct {
	Files   []string
	Options map[string]string
}

// Patch returns the -patch option, used as the geometry name of flushes.
func (a Args) Patch() string {
	if p := a.Options["patch"]; p != "" {
		return p
	}
	return "patch"
}

// ParseArgs splits an xgen_args string into files and options.
func ParseArgs(s string) (Args, error) {
	args := Args{Options: make(map[string]string)}
	tokens := strings.Fields(s)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "-") {
			args.Files = append(args.Files, tok)
			continue
		}
		if i+1 >= len(tokens) {
			return Args{}, fmt.Errorf("replay: option %s has no value", tok)
		}
		i++
		name := strings.TrimPrefix(tok, "-")
		if name == "file" {
			args.Files = append(args.Files, tokens[i])
			continue
		}
		args.Options[name] = tokens[i]
	}
	return args, nil
}
