// Command coldbrew decodes, builds and interprets a single JVM class file,
// optionally harvesting a linear trace at a named hot back-edge.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmpnz/coldbrew/internal/classfile"
	"github.com/jmpnz/coldbrew/internal/interp"
	"github.com/jmpnz/coldbrew/internal/program"
	"github.com/jmpnz/coldbrew/internal/rtlog"
	"github.com/jmpnz/coldbrew/internal/trace"
	"github.com/jmpnz/coldbrew/internal/traceview"
)

// version is the release string reported by the root command's --version
// flag. It is a constant, so it cannot be overridden with -ldflags -X.
const version = "0.1.0"

var logLevel string

func main() {
	if hasVersionFlag(withEnvArgs(os.Args[1:])) {
		showCopyright()
		return
	}

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// hasVersionFlag reports whether args requests the version banner via
// the single-dash -version/-showversion spellings, mirroring the
// teacher's HandleCli short-circuit for those flags ahead of generic
// option parsing. Cobra's flag parser only understands double-dash long
// flags (and single-char shorthands), so these are intercepted before
// cobra ever sees them rather than registered as cobra flags.
func hasVersionFlag(args []string) bool {
	for _, a := range args {
		if a == "-version" || a == "-showversion" {
			return true
		}
	}
	return false
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "coldbrew",
		Short:   "A tracing interpreter for the numeric subset of JVM bytecode",
		Version: version,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "trace, debug, info, warn, error")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		rtlog.SetLevel(logLevel)
	}
	root.SetArgs(withEnvArgs(os.Args[1:]))

	root.AddCommand(newRunCmd())
	root.AddCommand(newDumpCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var traceLoop uint16

	cmd := &cobra.Command{
		Use:   "run <class-file>",
		Short: "decode, build and interpret a class file, printing its return value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			traced := cmd.Flags().Changed("trace-loop")

			prog, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			entry, err := prog.EntryPoint()
			if err != nil {
				return err
			}

			it := interp.New(prog)
			var harvested *trace.Trace
			if traced {
				recorder := trace.New()
				it.Recorder = recorder
				it.Observer = func(pc interp.ProgramCounter, in interp.Instruction) {
					if !recorder.IsRecording() {
						return
					}
					if harvested == nil && recorder.IsDoneRecording(pc) {
						t := recorder.Recording()
						harvested = &t
						return
					}
					recorder.Record(pc, in)
				}
			}

			result, err := it.Run(cmd.Context(), entry)
			if err != nil {
				return err
			}
			if result != nil {
				fmt.Fprintln(os.Stdout, traceview.RenderValue(*result))
			}

			if harvested != nil && (traceLoop == 0 || uint16(harvested.Start.InstructionIndex) == traceLoop) {
				fmt.Fprintln(os.Stdout, traceview.RenderTrace(*harvested))
			}
			return nil
		},
	}
	cmd.Flags().Uint16Var(&traceLoop, "trace-loop", 0, "back-edge PC to restrict the printed trace to")
	return cmd
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <class-file>",
		Short: "decode a class file and print constant-pool and method-table summaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			cf, err := classfile.Decode(data)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, traceview.RenderClassFile(cf))
			return nil
		},
	}
}

func loadProgram(path string) (*program.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cf, err := classfile.Decode(data)
	if err != nil {
		return nil, err
	}
	return program.Build(cf)
}

// withEnvArgs prepends any COLDBREW_TOOL_OPTIONS / _COLDBREW_OPTIONS /
// COLDBREW_JAVA_OPTIONS words to args, mirroring the teacher's
// getEnvArgs/HandleCli environment pickup so scripted launches can set
// default flags without editing the invocation itself.
func withEnvArgs(args []string) []string {
	env := getEnvArgs()
	if env == "" {
		return args
	}
	return append(strings.Fields(env), args...)
}

// getEnvArgs concatenates the coldbrew equivalents of the JVM's
// JAVA_TOOL_OPTIONS/_JAVA_OPTIONS/JDK_JAVA_OPTIONS environment variables,
// space separated, in declaration order.
func getEnvArgs() string {
	var parts []string
	for _, name := range []string{"COLDBREW_TOOL_OPTIONS", "_COLDBREW_OPTIONS", "COLDBREW_JAVA_OPTIONS"} {
		if v := os.Getenv(name); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func showCopyright() {
	fmt.Fprintln(os.Stdout, "coldbrew - a tracing JVM bytecode interpreter")
	fmt.Fprintln(os.Stdout, "Copyright 2026. All rights reserved.")
}
