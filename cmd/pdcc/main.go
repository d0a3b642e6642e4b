package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/raymyers/pdcc/pkg/ast"
	"github.com/raymyers/pdcc/pkg/astyaml"
	"github.com/raymyers/pdcc/pkg/cgen"
	"github.com/raymyers/pdcc/pkg/csrc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version = "0.1.0"

// options holds the command-line configuration of one invocation
type options struct {
	output  string
	entry   string
	dParse  bool
	dCsrc   bool
	verbose bool
}

// register declares the flags on fs
func (o *options) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.output, "output", "o", "", "Write the C source to this file instead of stdout")
	fs.StringVar(&o.entry, "entry", "", "Name of the generated entry function (default from the program, else main)")
	fs.BoolVar(&o.dParse, "dparse", false, "Dump the decoded AST and stop")
	fs.BoolVar(&o.dCsrc, "dcsrc", false, "Dump the lowered entry function without the runtime")
	fs.BoolVar(&o.verbose, "verbose", false, "Trace compilation phases to stderr")
}

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	// Accept CompCert-style single-dash dump flags
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// debugFlagNames lists the dump flags that also accept a single dash
var debugFlagNames = []string{"dparse", "dcsrc"}

// normalizeFlags converts single-dash dump flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		for _, name := range debugFlagNames {
			if arg == "-"+name {
				result[i] = "--" + name
				break
			}
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "pdcc [file]",
		Short: "pdcc lowers Palladium programs to C",
		Long: `pdcc is the C back end of the Palladium compiler. It reads a
program in its YAML AST form (a file, or - for stdin), type-checks it
and writes a single self-contained C99 translation unit.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return compile(args[0], cmd.InOrStdin(), out, errOut, opts)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	opts.register(rootCmd.Flags())
	return rootCmd
}

// compile runs decode, lower and write for one input
func compile(filename string, in io.Reader, out, errOut io.Writer, opts *options) error {
	trace := func(format string, args ...any) {
		if opts.verbose {
			fmt.Fprintf(errOut, "pdcc: "+format+"\n", args...)
		}
	}

	prog, err := decodeFile(filename, in, errOut)
	if err != nil {
		return err
	}
	trace("decoded %d top-level statements from %s", len(prog.Body), filename)

	if opts.dParse {
		ast.NewPrinter(out).PrintProgram(prog)
		return nil
	}

	unit, err := cgen.TranslateProgram(prog, cgen.Options{Entry: opts.entry})
	if err != nil {
		fmt.Fprintf(errOut, "pdcc: %s: %v\n", filename, err)
		return err
	}
	trace("lowered entry function %s", unit.Functions[0].Name)

	if opts.dCsrc {
		for i := range unit.Functions {
			csrc.NewPrinter(out).PrintFunction(&unit.Functions[i])
		}
		return nil
	}

	source := csrc.Format(unit)
	if opts.output == "" || opts.output == "-" {
		fmt.Fprint(out, source)
		return nil
	}
	if err := os.WriteFile(opts.output, []byte(source), 0644); err != nil {
		fmt.Fprintf(errOut, "pdcc: error writing %s: %v\n", opts.output, err)
		return err
	}
	trace("wrote %d bytes to %s", len(source), opts.output)
	return nil
}

// decodeFile reads and decodes an AST document; "-" reads from in
func decodeFile(filename string, in io.Reader, errOut io.Writer) (*ast.Program, error) {
	var data []byte
	var err error
	if filename == "-" {
		var buf bytes.Buffer
		_, err = buf.ReadFrom(in)
		data = buf.Bytes()
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		fmt.Fprintf(errOut, "pdcc: error reading %s: %v\n", filename, err)
		return nil, err
	}

	prog, err := astyaml.Decode(data)
	if err != nil {
		fmt.Fprintf(errOut, "pdcc: %s: %v\n", filename, err)
		return nil, err
	}
	return prog, nil
}
