package hack

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// An assembler for the hack assembler code written by the translator. It turns the code into the binary
// instructions executed by the hack CPU, mainly so that the translated code can be checked and run.

// The A instruction has several forms:
// * @10(decimal value), put this value to the A register, the value must fit in 15 bits.
// * @label, put the instruction address of label to A register, the label can be used before declared.
// * @R[0-15], SP, LCL, ARG, THIS, THAT, SCREEN, KBD, the predefined symbols.
// * @Variable, any other symbol, a data memory address allocated from 16 on first use.

const (
	variableBase = 16
	maxConstant  = 1<<15 - 1
	// StackBase is where the vm stack starts, variables of translated
	// programs must stay below it.
	StackBase = 256
)

var predefinedVariables = map[string]int{
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"R0":     0,
	"R1":     1,
	"R2":     2,
	"R3":     3,
	"R4":     4,
	"R5":     5,
	"R6":     6,
	"R7":     7,
	"R8":     8,
	"R9":     9,
	"R10":    10,
	"R11":    11,
	"R12":    12,
	"R13":    13,
	"R14":    14,
	"R15":    15,
	"SCREEN": 16384,
	"KBD":    24576,
}

var cCommandCompMap = map[string]string{
	"0":   "0101010",
	"1":   "0111111",
	"-1":  "0111010",
	"D":   "0001100",
	"A":   "0110000",
	"!D":  "0001101",
	"!A":  "0110001",
	"-D":  "0001111",
	"-A":  "0110011",
	"D+1": "0011111",
	"1+D": "0011111",
	"A+1": "0110111",
	"1+A": "0110111",
	"D-1": "0001110",
	"A-1": "0110010",
	"D+A": "0000010",
	"A+D": "0000010",
	"D-A": "0010011",
	"A-D": "0000111",
	"D&A": "0000000",
	"A&D": "0000000",
	"D|A": "0010101",
	"A|D": "0010101",
	"M":   "1110000",
	"!M":  "1110001",
	"-M":  "1110011",
	"M+1": "1110111",
	"1+M": "1110111",
	"M-1": "1110010",
	"D+M": "1000010",
	"M+D": "1000010",
	"D-M": "1010011",
	"M-D": "1000111",
	"D&M": "1000000",
	"M&D": "1000000",
	"D|M": "1010101",
	"M|D": "1010101",
}

var cCommandDestMap = map[string]string{
	"M":   "001",
	"D":   "010",
	"MD":  "011",
	"DM":  "011",
	"A":   "100",
	"AM":  "101",
	"MA":  "101",
	"AD":  "110",
	"DA":  "110",
	"AMD": "111",
	"ADM": "111",
	"DAM": "111",
	"DMA": "111",
	"MAD": "111",
	"MDA": "111",
}

var cCommandJumpMap = map[string]string{
	"JGT": "001",
	"JEQ": "010",
	"JGE": "011",
	"JLT": "100",
	"JNE": "101",
	"JLE": "110",
	"JMP": "111",
}

var symbolFormat = regexp.MustCompile(`^[a-zA-Z_.$:][0-9a-zA-Z_.$:]*$`)

type InstructionType int

const (
	AConstant InstructionType = iota
	ALabel
	AVariable
	CInstruction
)

// Instruction is one machine instruction, Code holds its 16 binary digits.
// Line is the line of the assembler code it comes from.
type Instruction struct {
	Tp     InstructionType
	Code   string
	Line   int
	Source string
	symbol string
}

func (ins Instruction) String() string {
	return fmt.Sprintf("Instruction: {Tp: %d, Code: %s, Line: %d, Source: %s}", ins.Tp, ins.Code, ins.Line, ins.Source)
}

// Word returns the instruction as the CPU sees it.
func (ins Instruction) Word() uint16 {
	word, _ := strconv.ParseUint(ins.Code, 2, 16)
	return uint16(word)
}

// Program is the result of an assembly. Labels maps every label to the address
// of the instruction following it, Variables maps every variable to its RAM address.
type Program struct {
	Instructions []Instruction
	Labels       map[string]int
	Variables    map[string]int
}

func (p *Program) Words() []uint16 {
	words := make([]uint16, len(p.Instructions))
	for i, ins := range p.Instructions {
		words[i] = ins.Word()
	}
	return words
}

// CheckVariables fails when a variable got allocated at or past StackBase.
func (p *Program) CheckVariables() error {
	if len(p.Variables) <= StackBase-variableBase {
		return nil
	}
	for symbol, addr := range p.Variables {
		if addr >= StackBase {
			return fmt.Errorf("variable %s allocated at RAM[%d], %d variables don't fit below RAM[%d]",
				symbol, addr, len(p.Variables), StackBase)
		}
	}
	return nil
}

// Codes returns the program in the .hack text format, one instruction per line.
func (p *Program) Codes() []string {
	codes := make([]string, len(p.Instructions))
	for i, ins := range p.Instructions {
		codes[i] = ins.Code
	}
	return codes
}

type Assembler struct {
	line         int
	labels       map[string]int
	instructions []Instruction
	// symbolRefs are the indexes of the instructions referring a label or a variable,
	// which can only be resolved after all labels are known.
	symbolRefs []int
}

func NewAssembler() *Assembler {
	return &Assembler{labels: map[string]int{}}
}

// Assemble assembles lines in one go.
func Assemble(lines []string) (*Program, error) {
	asm := NewAssembler()
	for _, line := range lines {
		if err := asm.AddLine(line); err != nil {
			return nil, err
		}
	}
	return asm.Finish(), nil
}

// Parse assembles the assembler code read from rd.
func (asm *Assembler) Parse(rd io.Reader) (*Program, error) {
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		if err := asm.AddLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return asm.Finish(), nil
}

// AddLine assembles the next line of code. Blank lines and comments are skipped.
func (asm *Assembler) AddLine(line string) error {
	asm.line++
	if index := strings.Index(line, "//"); index != -1 {
		line = line[:index]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	switch line[0] {
	case '@':
		return asm.transformACommand(line)
	case '(':
		return asm.transformLabelCommand(line)
	default:
		return asm.transformCCommand(line)
	}
}

// Finish resolves the @label and @variable commands. Those point to addresses we don't know before
// all labels are declared, so they're resolved last.
func (asm *Assembler) Finish() *Program {
	variables := map[string]int{}
	for _, index := range asm.symbolRefs {
		ins := &asm.instructions[index]
		if addr, exist := asm.labels[ins.symbol]; exist {
			ins.Tp = ALabel
			ins.Code = formatCode(addr)
			continue
		}
		addr, exist := variables[ins.symbol]
		if !exist {
			addr = variableBase + len(variables)
			variables[ins.symbol] = addr
		}
		ins.Tp = AVariable
		ins.Code = formatCode(addr)
	}
	labels := make(map[string]int, len(asm.labels))
	for label, addr := range asm.labels {
		labels[label] = addr
	}
	return &Program{Instructions: asm.instructions, Labels: labels, Variables: variables}
}

func (asm *Assembler) transformACommand(line string) error {
	value := line[1:]
	if value == "" {
		return asm.makeSyntaxErr("empty A command")
	}
	if value[0] >= '0' && value[0] <= '9' {
		return asm.transformADecimalCommand(line)
	}
	if addr, exist := predefinedVariables[value]; exist {
		asm.appendInstruction(Instruction{Tp: AVariable, Code: formatCode(addr), Source: line})
		return nil
	}
	if !symbolFormat.MatchString(value) {
		return asm.makeSyntaxErr("wrong variable or label format")
	}
	asm.symbolRefs = append(asm.symbolRefs, len(asm.instructions))
	asm.appendInstruction(Instruction{Tp: ALabel, Source: line, symbol: value})
	return nil
}

func (asm *Assembler) transformADecimalCommand(line string) error {
	value, err := strconv.Atoi(line[1:])
	if err != nil || value > maxConstant {
		return asm.makeSyntaxErr("wrong decimal value format")
	}
	asm.appendInstruction(Instruction{Tp: AConstant, Code: formatCode(value), Source: line})
	return nil
}

// transformLabelCommand handles '(label)', the label points to the next instruction.
func (asm *Assembler) transformLabelCommand(line string) error {
	if !strings.HasSuffix(line, ")") {
		return asm.makeSyntaxErr("wrong label format")
	}
	label := line[1 : len(line)-1]
	if !symbolFormat.MatchString(label) {
		return asm.makeSyntaxErr("wrong label format")
	}
	if _, exist := asm.labels[label]; exist {
		return asm.makeSyntaxErr("found duplicate label " + label)
	}
	asm.labels[label] = len(asm.instructions)
	return nil
}

// transformCCommand handles dest=comp;jump where dest and jump are optional.
func (asm *Assembler) transformCCommand(line string) error {
	rest := line
	destCode := "000"
	if index := strings.IndexByte(rest, '='); index != -1 {
		code, exist := cCommandDestMap[rest[:index]]
		if !exist {
			return asm.makeSyntaxErr("wrong c command of dest code format near " + line)
		}
		destCode, rest = code, rest[index+1:]
	}
	jumpCode := "000"
	if index := strings.IndexByte(rest, ';'); index != -1 {
		code, exist := cCommandJumpMap[rest[index+1:]]
		if !exist {
			return asm.makeSyntaxErr("wrong c command of jump code format near " + line)
		}
		jumpCode, rest = code, rest[:index]
	}
	compCode, exist := cCommandCompMap[rest]
	if !exist {
		return asm.makeSyntaxErr("wrong c command of comp code format near " + line)
	}
	asm.appendInstruction(Instruction{Tp: CInstruction, Code: "111" + compCode + destCode + jumpCode, Source: line})
	return nil
}

func (asm *Assembler) appendInstruction(ins Instruction) {
	ins.Line = asm.line
	asm.instructions = append(asm.instructions, ins)
}

// formatCode transfers the addr to binary code format.
func formatCode(addr int) string {
	code := [16]byte{}
	for j := 15; j >= 0; j-- {
		code[j] = byte(addr&1) + '0'
		addr = addr >> 1
	}
	return string(code[:])
}

func (asm *Assembler) makeSyntaxErr(msg string) error {
	return errors.New(fmt.Sprintf("syntax err at line %d: %s", asm.line, msg))
}
