package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/xiaobogaga/hackvm/vmtranslator/internal"
	"github.com/xiaobogaga/hackvm/vmtranslator/internal/hack"
)

// A simple program to translate hack vm codes to hack assembler.

var (
	path       string
	output     string
	verbose    bool
	whole      bool
	entry      string
	annotate   bool
	staticMode string
	check      bool
	binary     bool
	dump       bool
	// Turn it off for the chapter 7 tests, whose scripts set SP themselves.
	writeInitializeCode bool
)

var rootCmd = &cobra.Command{
	Use:   "vmtranslator [path]",
	Short: "Translate hack vm code to hack assembler code",
	Long: `Vmtranslator translates the vm files found at path into hack assembler.

A .vm file is translated to a .asm file next to it. In a directory, every
.vm file is translated on its own and every subdirectory holding .vm files
is translated as one program, saved as <dir>/<dir>.asm. With --whole the
directory itself is one program. The module declaring the entry function
goes first and the bootstrap code calls it.
`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog reads its settings from the go flag set.
		return flag.CommandLine.Parse(nil)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			path = args[0]
		}
		return translate()
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&path, "path", ".", "the program path, a vm file or a directory")
	flags.StringVarP(&output, "output", "o", "", "the directory to save .asm files to, next to the sources by default")
	// -v belongs to glog.
	flags.BoolVar(&verbose, "verbose", false, "whether print translate result")
	flags.BoolVar(&writeInitializeCode, "wi", true, "whether write initialize code")
	flags.BoolVar(&whole, "whole", false, "translate all vm files of the directory as one program")
	flags.StringVar(&entry, "entry", internal.DefaultEntryPoint, "the function called by the initialize code")
	flags.BoolVar(&annotate, "annotate", false, "precede the code of every vm command with a comment")
	flags.StringVar(&staticMode, "static-mode", "index", "how static variables are named: index or occurrence")
	flags.BoolVar(&check, "check", false, "assemble the result to check it")
	flags.BoolVar(&binary, "binary", false, "also save the assembled .hack file")
	flags.BoolVar(&dump, "dump", false, "dump the discovered programs")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func translate() error {
	mode, err := internal.ParseStaticMode(staticMode)
	if err != nil {
		return err
	}
	opts := internal.Options{
		Bootstrap:  writeInitializeCode,
		EntryPoint: entry,
		Annotate:   annotate,
		Static:     mode,
	}
	units, err := internal.Discover(path, internal.DiscoverOptions{OutputDir: output, Whole: whole, EntryPoint: entry})
	if err != nil {
		return err
	}
	if len(units) == 0 {
		return fmt.Errorf("no vm files found at %s", path)
	}
	if dump {
		spew.Dump(units)
	}
	glog.V(1).Infof("translator: translating %d programs at %s", len(units), path)
	results, err := internal.TranslateAll(units, opts)
	if err != nil {
		return err
	}
	for i, unit := range units {
		lines := results[i]
		if check || binary {
			program, err := hack.Assemble(lines)
			if err == nil {
				err = program.CheckVariables()
			}
			if err != nil {
				return fmt.Errorf("check %s: %w", unit.Name, err)
			}
			if binary {
				hackPath := strings.TrimSuffix(unit.Output, filepath.Ext(unit.Output)) + ".hack"
				if err := internal.WriteLines(hackPath, program.Codes()); err != nil {
					return err
				}
				glog.Infof("translator: saved %s", hackPath)
			}
		}
		if verbose {
			fmt.Println(strings.Join(lines, "\n"))
		}
		if err := internal.WriteLines(unit.Output, lines); err != nil {
			return fmt.Errorf("failed to save to path: %s, err: %w", unit.Output, err)
		}
		glog.Infof("translator: saved %s, %d lines", unit.Output, len(lines))
	}
	return nil
}

func main() {
	flag.Set("logtostderr", "true")
	defer glog.Flush()
	if err := rootCmd.Execute(); err != nil {
		glog.Errorf("[Translator]: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}
