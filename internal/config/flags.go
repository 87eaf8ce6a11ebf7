package config

import (
	"flag"
	"io"
)

// Flags are the command line overrides. Both only ever force a setting on.
type Flags struct {
	ForfeitEarly bool
	Verbose      bool
}

func ParseFlags(name string, args []string, output io.Writer) (Flags, error) {
	var f Flags

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.BoolVar(&f.ForfeitEarly, "f", false, "surrender the match at the first available time")
	fs.BoolVar(&f.ForfeitEarly, "ffearly", false, "surrender the match at the first available time")
	fs.BoolVar(&f.Verbose, "v", false, "increase output verbosity, mostly useful for debugging")
	fs.BoolVar(&f.Verbose, "verbose", false, "increase output verbosity, mostly useful for debugging")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	return f, nil
}
