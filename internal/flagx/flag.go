// Package flagx extracts the subset of command-line arguments a component
// understands, so several flag sets can share os.Args without tripping over
// each other's flags.
package flagx

import (
	"flag"
	"strings"
)

// Spec lists the flags a component accepts. Valued flags may take their value
// from the next argument; Bool flags never do.
type Spec struct {
	Valued []string
	Bool   []string
}

// FilterArgs returns the arguments that belong to spec, in their original
// order.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      -config=conf.json
//  3. Bare boolean flag:                     -r
func FilterArgs(args []string, spec Spec) []string {
	valued := make(map[string]struct{}, len(spec.Valued))
	for _, f := range spec.Valued {
		valued[f] = struct{}{}
	}
	boolean := make(map[string]struct{}, len(spec.Bool))
	for _, f := range spec.Bool {
		boolean[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := valued[name]; ok {
				filtered = append(filtered, arg)
			} else if _, ok := boolean[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := boolean[arg]; ok {
			filtered = append(filtered, arg)
			continue
		}

		if _, ok := valued[arg]; ok {
			filtered = append(filtered, arg)
			// A following token that does not look like a flag is the value.
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigPath returns the JSON config path given via -c or -config in args,
// or "" when neither is present. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	filtered := FilterArgs(args, Spec{Valued: []string{"-c", "-config"}})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(filtered)

	return path
}
