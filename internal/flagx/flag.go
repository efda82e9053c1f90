// Package flagx lets several independent components read their own flags
// from one command line without tripping over each other's definitions.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// flagName returns the bare name of a flag token ("-d", "--d=x" -> "d") and
// whether the token carries an inline "=value".
func flagName(arg string) (string, bool) {
	if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
		return "", false
	}
	name := strings.TrimLeft(arg, "-")
	if i := strings.IndexByte(name, '='); i >= 0 {
		return name[:i], true
	}
	return name, false
}

// FilterArgs keeps only the flags listed in names (given without dashes)
// together with their values. Both the single and the double dash form are
// recognised, as well as "-name value" and "-name=value".
//
// A token that follows a kept flag is treated as its value unless it starts
// with a dash itself.
func FilterArgs(args []string, names []string) []string {
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[strings.TrimLeft(n, "-")] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		name, inline := flagName(args[i])
		if name == "" {
			continue
		}
		if _, ok := allowed[name]; !ok {
			continue
		}
		filtered = append(filtered, args[i])
		if inline {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFile extracts the JSON config path passed with -c or -config.
// An empty string means no file was requested.
func ConfigFile(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"c", "config"}))

	return config
}
