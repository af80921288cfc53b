package cmd

import (
	"flag"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors are the value predictors of flags, by name.
var flagPredictors = map[string]complete.Predictor{
	"config": predict.Files("*.yaml"),
	"store":  predict.Set{"memory", "sqlite", "redis"},
	"broker": predict.Set{"ubs", "saxo"},
	"p":      predict.Set{"months", "quarters", "years", "all"},
	"html":   predict.Files("*.html"),
}

// exportFiles predicts spreadsheet exports.
type exportFiles struct{}

func (exportFiles) Predict(prefix string) []string {
	return append(predict.Files("*.xlsx").Predict(prefix), predict.Files("*.csv").Predict(prefix)...)
}

// argPredictors are the positional argument predictors, by command name.
var argPredictors = map[string]complete.Predictor{
	"import":   exportFiles{},
	"timeline": exportFiles{},
	"detect":   exportFiles{},
}

func flagsOf(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagPredictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}

// Completion returns the shell completion of fa: global flags, subcommands
// with their own flags, and export files as arguments.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagsOf(flag.CommandLine),
	}
	for _, cmds := range Commands {
		for _, c := range cmds {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			root.Sub[c.Name()] = &complete.Command{
				Flags: flagsOf(fs),
				Args:  argPredictors[c.Name()],
			}
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}
