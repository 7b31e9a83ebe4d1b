package cmd

import (
	"strings"

	"github.com/spf13/pflag"
)

// normalizeArgs rewrites "--targetname a b c" into "--targetname a --targetname b --targetname c"
// so that pflag understands the multi-value form used by existing build scripts. Everything from
// the first positional argument or "--" on is left alone since it belongs to xsltproc.
func normalizeArgs(flags *pflag.FlagSet, args []string) []string {
	result := make([]string, 0, len(args))
	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		if arg == "--" || arg == "-" || !strings.HasPrefix(arg, "-") {
			return append(result, args[idx:]...)
		}

		result = append(result, arg)
		if strings.Contains(arg, "=") {
			continue
		}

		flag := lookupFlag(flags, arg)
		if flag == nil || flag.NoOptDefVal != "" || idx+1 >= len(args) {
			continue
		}

		// the flag's value
		idx++
		result = append(result, args[idx])

		if flag.Name != "targetname" {
			continue
		}

		for idx+1 < len(args) && !strings.HasPrefix(args[idx+1], "-") {
			idx++
			result = append(result, arg, args[idx])
		}
	}

	return result
}

func lookupFlag(flags *pflag.FlagSet, arg string) *pflag.Flag {
	if strings.HasPrefix(arg, "--") {
		return flags.Lookup(arg[2:])
	}

	if len(arg) == 2 {
		return flags.ShorthandLookup(arg[1:])
	}

	return nil
}
