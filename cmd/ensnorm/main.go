// Command ensnorm normalizes, beautifies and inspects ENS-style names
// from the command line. It is a thin shell over the ens package: all
// classification and validation happens there.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/npillmayer/ens"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

var traceFlag string

var rootCmd = &cobra.Command{
	Use:   "ensnorm",
	Short: "Normalize and validate ENS-style names",
	Long: `ensnorm normalizes human-typed domain-name labels against a
Unicode security specification. Names are either rewritten to their
canonical form or rejected with a classified error, including the
whole-script confusables used in homograph attacks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupTracing(traceFlag)
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <name>...",
	Short: "Print the canonical normalized form of each name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			norm, err := ens.Normalize(name)
			if err != nil {
				return describe(name, err)
			}
			fmt.Println(norm)
		}
		return nil
	},
}

var beautifyCmd = &cobra.Command{
	Use:   "beautify <name>...",
	Short: "Print the cosmetic display form of each name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			pretty, err := ens.Beautify(name)
			if err != nil {
				return describe(name, err)
			}
			fmt.Println(pretty)
		}
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <name>",
	Short: "Dump the token sequence and per-label script groups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tn, err := ens.Tokenize(args[0])
		if err != nil {
			return err
		}
		for _, tok := range tn.Tokens {
			fmt.Printf("%-10s %q", tok.Type, string(tok.Input))
			if string(tok.Input) != string(tok.Cps) {
				fmt.Printf(" -> %q", string(tok.Cps))
			}
			fmt.Println()
		}
		p, err := ens.Process(args[0])
		if err != nil {
			return describe(args[0], err)
		}
		for i, label := range p.Labels {
			fmt.Printf("label %d: group %s\n", i, label.Group)
		}
		return nil
	},
}

// describe renders a validation failure for humans, including the
// suggested fix for curable errors.
func describe(name string, err error) error {
	var lerr *ens.LabelError
	if !errors.As(err, &lerr) {
		return err
	}
	msg := fmt.Sprintf("%q: %v", name, lerr)
	if lerr.Curable() && len(lerr.Sequence) > 0 {
		if len(lerr.Suggest) == 0 {
			msg += fmt.Sprintf("; deleting %q would fix this", string(lerr.Sequence))
		} else {
			msg += fmt.Sprintf("; replacing with %q would fix this", string(lerr.Suggest))
		}
	}
	return errors.New(msg)
}

func setupTracing(level string) {
	adapter := gologadapter.GetAdapter()
	trace := adapter()
	trace.SetTraceLevel(traceLevel(level))
	tracing.SetTraceSelector(selector{tracer: trace})
}

func traceLevel(l string) tracing.TraceLevel {
	switch l {
	case "D":
		return tracing.LevelDebug
	case "I":
		return tracing.LevelInfo
	case "E":
		return tracing.LevelError
	}
	return tracing.LevelError
}

type selector struct {
	tracer tracing.Trace
}

func (s selector) Select(string) tracing.Trace {
	return s.tracer
}

func main() {
	rootCmd.PersistentFlags().StringVar(&traceFlag, "trace", "E", "Trace level (D, I, E)")
	rootCmd.AddCommand(normalizeCmd, beautifyCmd, inspectCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ensnorm:", err)
		os.Exit(1)
	}
}
