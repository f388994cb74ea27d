package internal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	VMExtension  = ".vm"
	AsmExtension = ".asm"
	// maxLineSize bounds a single source line.
	maxLineSize = 1 << 20
)

// StripLines reads vm code and drops comments, blank lines and surrounding
// spaces. Line numbers are kept for error reporting.
func StripLines(rd io.Reader) ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	number := 0
	for scanner.Scan() {
		number++
		text := scanner.Text()
		if index := strings.Index(text, "//"); index != -1 {
			text = text[:index]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		lines = append(lines, Line{Number: number, Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", number+1, err)
	}
	return lines, nil
}

// ReadModule reads and strips the vm file at path.
func ReadModule(path string) (Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return Module{}, err
	}
	defer f.Close()
	lines, err := StripLines(f)
	if err != nil {
		return Module{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Module{Name: baseName(path), Lines: lines}, nil
}

func isVMFile(name string) bool {
	return filepath.Ext(name) == VMExtension
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

type DiscoverOptions struct {
	// OutputDir receives every .asm file, the default is next to the sources.
	OutputDir string
	// Whole treats a directory root as a single unit made of all its vm files.
	Whole      bool
	EntryPoint string
}

// Discover finds the units under root. A vm file is a unit of its own. In a
// directory, each vm file is a unit and each subdirectory holding vm files is
// one unit named after the subdirectory, unless opts.Whole is set, in which
// case the vm files of root make up a single unit.
func Discover(root string, opts DiscoverOptions) ([]Unit, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !isVMFile(root) {
			return nil, fmt.Errorf("%s is not a %s file", root, VMExtension)
		}
		unit, err := fileUnit(root, opts)
		if err != nil {
			return nil, err
		}
		return []Unit{unit}, nil
	}
	if opts.Whole {
		unit, err := dirUnit(root, opts)
		if err != nil {
			return nil, err
		}
		if len(unit.Modules) == 0 {
			return nil, fmt.Errorf("no %s files in %s", VMExtension, root)
		}
		return []Unit{unit}, nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var units []Unit
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			unit, err := dirUnit(path, opts)
			if err != nil {
				return nil, err
			}
			// Ignore directories without vm files.
			if len(unit.Modules) > 0 {
				units = append(units, unit)
			}
			continue
		}
		if !isVMFile(entry.Name()) {
			continue
		}
		unit, err := fileUnit(path, opts)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

func fileUnit(path string, opts DiscoverOptions) (Unit, error) {
	module, err := ReadModule(path)
	if err != nil {
		return Unit{}, err
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(path)
	}
	return Unit{
		Name:    module.Name,
		Modules: []Module{module},
		Output:  filepath.Join(outputDir, module.Name+AsmExtension),
	}, nil
}

func dirUnit(dir string, opts DiscoverOptions) (Unit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Unit{}, err
	}
	var modules []Module
	for _, entry := range entries {
		if entry.IsDir() || !isVMFile(entry.Name()) {
			continue
		}
		module, err := ReadModule(filepath.Join(dir, entry.Name()))
		if err != nil {
			return Unit{}, err
		}
		modules = append(modules, module)
	}
	name := filepath.Base(filepath.Clean(dir))
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = dir
	}
	return Unit{
		Name:    name,
		Modules: OrderModules(modules, opts.EntryPoint),
		Output:  filepath.Join(outputDir, name+AsmExtension),
	}, nil
}

// WriteLines saves lines to path. The content goes to a temporary file first
// which then replaces path, so path is either fully written or untouched.
func WriteLines(path string, lines []string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	writer := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err = writer.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if err = writer.Flush(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
