package internal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The hack platform maps the virtual machine onto RAM like this:
// RAM[0]     SP, the stack pointer.
// RAM[1-4]   LCL, ARG, THIS, THAT, base addresses of the current function's segments.
// RAM[5-12]  the temp segment.
// RAM[13-15] general purpose registers, the translator uses R13 and R14 as scratch.
// RAM[16-255] static variables.
// RAM[256-]  the stack.
const (
	stackBase      = 256
	tempBase       = 5
	tempSize       = 8
	staticBase     = 16
	staticLimit    = 255
	staticCells    = staticLimit - staticBase + 1
	scratchPointer = "R13"
	scratchReturn  = "R14"
)

var segmentRegisters = map[Segment]string{
	LocalSegment:    "LCL",
	ArgumentSegment: "ARG",
	ThisSegment:     "THIS",
	ThatSegment:     "THAT",
}

// StaticMode selects how the static segment is mapped onto hack symbols.
type StaticMode int

const (
	// StaticByIndex maps static i of module Foo to the symbol Foo.i, leaving the
	// assembler to allocate it from RAM[16]. Without a module name, static i is
	// RAM[16+i].
	StaticByIndex StaticMode = iota
	// StaticByOccurrence numbers static slots by their order of reference
	// inside a function body (Foo.static0, Foo.static1, ...) and falls back to
	// RAM[16+i] outside of any function. The assembler allocates the symbols
	// from RAM[16] as well, so a program mixing both forms sees static i
	// outside functions alias the i-th allocated symbol.
	StaticByOccurrence
)

func (m StaticMode) String() string {
	switch m {
	case StaticByIndex:
		return "index"
	case StaticByOccurrence:
		return "occurrence"
	default:
		return "StaticMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseStaticMode is the inverse of StaticMode.String.
func ParseStaticMode(s string) (StaticMode, error) {
	switch strings.ToLower(s) {
	case "index", "":
		return StaticByIndex, nil
	case "occurrence":
		return StaticByOccurrence, nil
	default:
		return 0, fmt.Errorf("unknown static mode %q", s)
	}
}

// CodeWriter translates vm commands to hack assembler code. It holds the state
// of exactly one translation unit and must not be shared between units.
type CodeWriter struct {
	module          string
	currentFunction string
	labelID         int
	staticCounter   int
	staticMode      StaticMode

	// statics holds the static symbols of the unit, each takes one cell of
	// RAM[16-255].
	statics map[string]struct{}
	output  []string
}

func NewCodeWriter(staticMode StaticMode) *CodeWriter {
	return &CodeWriter{staticMode: staticMode, statics: map[string]struct{}{}}
}

// SetModule records the vm module the following commands come from. Static
// symbols are named after it.
func (w *CodeWriter) SetModule(name string) {
	w.module = name
}

func (w *CodeWriter) CurrentFunction() string {
	return w.currentFunction
}

// Lines returns everything written so far.
func (w *CodeWriter) Lines() []string {
	return w.output
}

// Comment writes a blank line followed by a comment line. The assembler ignores both.
func (w *CodeWriter) Comment(text string) {
	w.output = append(w.output, "", "// "+text)
}

// Write appends the hack assembler code of cmd.
func (w *CodeWriter) Write(cmd Command) error {
	switch cmd.Kind {
	case PushCommand:
		return w.writePush(cmd.Segment, cmd.Index)
	case PopCommand:
		return w.writePop(cmd.Segment, cmd.Index)
	case AddCommand:
		w.writeBinary("M=M+D")
	case SubCommand:
		w.writeBinary("M=M-D")
	case AndCommand:
		w.writeBinary("M=M&D")
	case OrCommand:
		w.writeBinary("M=M|D")
	case NegCommand:
		w.writeUnary("M=-M")
	case NotCommand:
		w.writeUnary("M=!M")
	case EqCommand:
		w.writeCompare("JNE")
	case GtCommand:
		w.writeCompare("JLE")
	case LtCommand:
		w.writeCompare("JGE")
	case LabelCommand:
		w.writeLabel(cmd.Name)
	case GotoCommand:
		w.writeGoto(cmd.Name)
	case IfGotoCommand:
		w.writeIfGoto(cmd.Name)
	case FunctionCommand:
		w.writeFunction(cmd.Name, cmd.Index)
	case CallCommand:
		return w.writeCall(cmd.Name, cmd.Index)
	case ReturnCommand:
		return w.writeReturn()
	default:
		return makeError(ErrUnrecognizedCommand, "%s", cmd.Kind)
	}
	return nil
}

// emit formats a multi-line template and appends its non-empty lines.
func (w *CodeWriter) emit(format string, args ...interface{}) {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			w.output = append(w.output, line)
		}
	}
}

// uniqueLabel returns a fresh label. Every label of the unit draws from the
// same counter, and vm labels can't start with '$'.
func (w *CodeWriter) uniqueLabel(prefix string) string {
	label := fmt.Sprintf("$%s.%d", prefix, w.labelID)
	w.labelID++
	return label
}

// pushD pushes the D register onto the stack.
func (w *CodeWriter) pushD() {
	w.emit(`
		@SP
		A=M
		M=D
		@SP
		M=M+1
		`)
}

// popD pops the topmost element of the stack into the D register.
func (w *CodeWriter) popD() {
	w.emit(`
		@SP
		AM=M-1
		D=M
		`)
}

// loadConstant sets D to value. A instructions only carry 15 bits, so
// negative values are built from their magnitude.
func (w *CodeWriter) loadConstant(value int) {
	switch {
	case value >= 0:
		w.emit("@%d\nD=A", value)
	case value == math.MinInt16:
		w.emit("@%d\nD=-A\nD=D-1", math.MaxInt16)
	default:
		w.emit("@%d\nD=-A", -value)
	}
}

// writeBinary translates add, sub, and, or. y is popped into D and the
// result replaces x in place:
// @SP
// AM=M-1
// D=M
// A=A-1
// M=M+D
func (w *CodeWriter) writeBinary(compute string) {
	w.emit(`
		@SP
		AM=M-1
		D=M
		A=A-1
		%s
		`, compute)
}

// writeUnary translates neg and not, the stack pointer stays where it is.
func (w *CodeWriter) writeUnary(compute string) {
	w.emit(`
		@SP
		A=M-1
		%s
		`, compute)
}

// writeCompare translates eq, gt and lt. D gets x-y and jumps to the false
// branch on the negated condition:
// @SP
// AM=M-1
// D=M
// A=A-1
// D=M-D
// @$FALSE.n
// D;JNE
// @SP
// A=M-1
// M=-1
// @$CONTINUE.n+1
// 0;JMP
// ($FALSE.n)
// @SP
// A=M-1
// M=0
// ($CONTINUE.n+1)
func (w *CodeWriter) writeCompare(jumpIfFalse string) {
	falseLabel := w.uniqueLabel("FALSE")
	continueLabel := w.uniqueLabel("CONTINUE")
	w.emit(`
		@SP
		AM=M-1
		D=M
		A=A-1
		D=M-D
		@%s
		D;%s
		@SP
		A=M-1
		M=-1
		@%s
		0;JMP
		(%s)
		@SP
		A=M-1
		M=0
		(%s)
		`, falseLabel, jumpIfFalse, continueLabel, falseLabel, continueLabel)
}

func (w *CodeWriter) writePush(segment Segment, index int) error {
	switch segment {
	case ConstantSegment:
		w.loadConstant(index)
	case LocalSegment, ArgumentSegment, ThisSegment, ThatSegment:
		w.emit(`
			@%d
			D=A
			@%s
			A=D+M
			D=M
			`, index, segmentRegisters[segment])
	case PointerSegment, TempSegment, StaticSegment:
		addr, err := w.directAddress(segment, index)
		if err != nil {
			return err
		}
		w.emit("@%s\nD=M", addr)
	default:
		return makeError(ErrUnknownSegment, "%s", segment)
	}
	w.pushD()
	return nil
}

func (w *CodeWriter) writePop(segment Segment, index int) error {
	switch segment {
	case ConstantSegment:
		// Nothing to store to, just drop the topmost element.
		w.emit(`
			@SP
			M=M-1
			`)
	case LocalSegment, ArgumentSegment, ThisSegment, ThatSegment:
		w.emit(`
			@%d
			D=A
			@%s
			D=D+M
			@%s
			M=D
			`, index, segmentRegisters[segment], scratchPointer)
		w.popD()
		w.emit(`
			@%s
			A=M
			M=D
			`, scratchPointer)
	case PointerSegment, TempSegment, StaticSegment:
		addr, err := w.directAddress(segment, index)
		if err != nil {
			return err
		}
		w.popD()
		w.emit("@%s\nM=D", addr)
	default:
		return makeError(ErrUnknownSegment, "%s", segment)
	}
	return nil
}

// directAddress resolves the segments whose cells live at a fixed address or
// symbol, so that no pointer arithmetic is needed at runtime.
func (w *CodeWriter) directAddress(segment Segment, index int) (string, error) {
	switch segment {
	case PointerSegment:
		switch index {
		case 0:
			return "THIS", nil
		case 1:
			return "THAT", nil
		}
		return "", makeError(ErrSegmentBounds, "pointer %d", index)
	case TempSegment:
		if index >= tempSize {
			return "", makeError(ErrSegmentBounds, "temp %d is past RAM[%d]", index, tempBase+tempSize-1)
		}
		return strconv.Itoa(tempBase + index), nil
	case StaticSegment:
		return w.staticSymbol(index)
	}
	return "", makeError(ErrUnknownSegment, "%s", segment)
}

func (w *CodeWriter) staticSymbol(index int) (string, error) {
	if staticBase+index > staticLimit {
		return "", makeError(ErrSegmentBounds, "static %d is past RAM[%d]", index, staticLimit)
	}
	var symbol string
	switch w.staticMode {
	case StaticByOccurrence:
		if w.currentFunction == "" {
			return strconv.Itoa(staticBase + index), nil
		}
		symbol = fmt.Sprintf("%s.static%d", w.staticPrefix(), w.staticCounter)
		w.staticCounter++
	default:
		if w.module == "" {
			return strconv.Itoa(staticBase + index), nil
		}
		symbol = fmt.Sprintf("%s.%d", w.module, index)
	}
	if _, exist := w.statics[symbol]; !exist {
		if len(w.statics) >= staticCells {
			return "", makeError(ErrSegmentBounds, "%s is past RAM[%d], the unit already has %d statics",
				symbol, staticLimit, staticCells)
		}
		w.statics[symbol] = struct{}{}
	}
	return symbol, nil
}

func (w *CodeWriter) staticPrefix() string {
	if w.module != "" {
		return w.module
	}
	return "Static"
}
