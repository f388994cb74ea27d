package internal

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/xiaobogaga/hackvm/util"
)

// DefaultEntryPoint is the function the bootstrap code calls.
const DefaultEntryPoint = "Sys.init"

// Line is one stripped vm line along with its line number in the source file.
type Line struct {
	Number int
	Text   string
}

// Module is the content of one vm file, Name is the file name without the
// extension, e.g. Main for Main.vm.
type Module struct {
	Name  string
	Lines []Line
}

// Unit is a whole program: all of its modules share one label counter and one
// static namespace. Output is where the translated program gets saved.
type Unit struct {
	Name    string
	Modules []Module
	Output  string
}

type Options struct {
	// Bootstrap writes the code setting SP and calling the entry point.
	Bootstrap  bool
	EntryPoint string
	// Annotate frames every command with a comment holding its source position.
	Annotate bool
	Static   StaticMode
}

func DefaultOptions() Options {
	return Options{
		Bootstrap:  true,
		EntryPoint: DefaultEntryPoint,
		Static:     StaticByIndex,
	}
}

type parsedCommand struct {
	module string
	line   Line
	cmd    Command
}

// Translate translates all modules of unit into one hack assembler program.
// The first failing line aborts the whole unit.
func Translate(unit Unit, opts Options) ([]string, error) {
	if opts.Bootstrap && opts.EntryPoint != "" && !util.IsSymbol(opts.EntryPoint) {
		return nil, makeError(ErrInvalidOperand, "bad entry point %s", opts.EntryPoint)
	}
	modules := OrderModules(unit.Modules, opts.EntryPoint)
	commands, err := parseModules(modules)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("translator: unit %s has %d modules, %d commands", unit.Name, len(modules), len(commands))

	writer := NewCodeWriter(opts.Static)
	if opts.Bootstrap {
		entry := ""
		if defines(modules, opts.EntryPoint) {
			entry = opts.EntryPoint
		}
		if opts.Annotate {
			writer.Comment("bootstrap")
		}
		if err := writer.WriteInit(entry); err != nil {
			return nil, err
		}
	}
	for _, c := range commands {
		writer.SetModule(c.module)
		if opts.Annotate {
			writer.Comment(fmt.Sprintf("%s:%d %s", c.module, c.line.Number, c.line.Text))
		}
		if err := writer.Write(c.cmd); err != nil {
			return nil, &SyntaxError{Module: c.module, Line: c.line.Number, Text: c.line.Text, Err: err}
		}
	}
	return writer.Lines(), nil
}

// TranslateLines translates a single anonymous module, mostly useful for
// short snippets.
func TranslateLines(lines []string, opts Options) ([]string, error) {
	module := Module{}
	for i, text := range lines {
		module.Lines = append(module.Lines, Line{Number: i + 1, Text: text})
	}
	return Translate(Unit{Modules: []Module{module}}, opts)
}

func parseModules(modules []Module) ([]parsedCommand, error) {
	var commands []parsedCommand
	for _, module := range modules {
		for _, line := range module.Lines {
			cmd, err := ParseCommand(line.Text)
			if err != nil {
				return nil, &SyntaxError{Module: module.Name, Line: line.Number, Text: line.Text, Err: err}
			}
			commands = append(commands, parsedCommand{module: module.Name, line: line, cmd: cmd})
		}
	}
	return commands, nil
}

// OrderModules returns modules with the one declaring entry moved to the
// front, the others keep their order.
func OrderModules(modules []Module, entry string) []Module {
	var first, rest []Module
	for _, module := range modules {
		if definesFunction(module, entry) {
			first = append(first, module)
		} else {
			rest = append(rest, module)
		}
	}
	return append(first, rest...)
}

func defines(modules []Module, function string) bool {
	for _, module := range modules {
		if definesFunction(module, function) {
			return true
		}
	}
	return false
}

func definesFunction(module Module, function string) bool {
	if function == "" {
		return false
	}
	for _, line := range module.Lines {
		cmd, err := ParseCommand(line.Text)
		if err == nil && cmd.Kind == FunctionCommand && cmd.Name == function {
			return true
		}
	}
	return false
}
