package globalflag

import (
	"github.com/spf13/pflag"
)

type FlagSet struct {
	remote string
	output string
	debug  bool
}

func (f *FlagSet) Remote() string {
	return f.remote
}

func (f *FlagSet) Output() string {
	return f.output
}

func (f *FlagSet) Debug() bool {
	return f.debug
}

func (f *FlagSet) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&f.remote, "remote", "r", "http://127.0.0.1:9998/", "Remote address")
	flags.StringVarP(&f.output, "output", "o", "", "Output format. One of: json|yaml")
	flags.BoolVar(&f.debug, "debug", false, "Print debug logs to stderr")
}

func New() *FlagSet {
	return &FlagSet{}
}
