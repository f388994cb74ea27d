package internal

import (
	"strconv"
	"strings"

	"github.com/xiaobogaga/hackvm/util"
)

// There are four kinds of vm commands, they are:
// * Arithmetic commands: add, sub, neg, eq, gt, lt, and, or, not.
// * Memory access commands: push segment index, pop segment index, where segment can be
//   argument, local, static, constant, this, that, pointer, temp.
// * Program flow commands: label name, goto name, if-goto name.
// * Function calling commands: function f n, call f m, return.

type Kind int

const (
	PushCommand Kind = iota
	PopCommand
	AddCommand
	SubCommand
	NegCommand
	EqCommand
	GtCommand
	LtCommand
	AndCommand
	OrCommand
	NotCommand
	LabelCommand
	GotoCommand
	IfGotoCommand
	FunctionCommand
	CallCommand
	ReturnCommand
)

var kindNames = [...]string{
	PushCommand:     "push",
	PopCommand:      "pop",
	AddCommand:      "add",
	SubCommand:      "sub",
	NegCommand:      "neg",
	EqCommand:       "eq",
	GtCommand:       "gt",
	LtCommand:       "lt",
	AndCommand:      "and",
	OrCommand:       "or",
	NotCommand:      "not",
	LabelCommand:    "label",
	GotoCommand:     "goto",
	IfGotoCommand:   "if-goto",
	FunctionCommand: "function",
	CallCommand:     "call",
	ReturnCommand:   "return",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// IsArithmetic reports whether k is one of the nine arithmetic/logical commands.
func (k Kind) IsArithmetic() bool {
	return k >= AddCommand && k <= NotCommand
}

type Segment int

const (
	NoSegment Segment = iota
	ConstantSegment
	LocalSegment
	ArgumentSegment
	ThisSegment
	ThatSegment
	PointerSegment
	TempSegment
	StaticSegment
)

var segmentNames = [...]string{
	NoSegment:       "",
	ConstantSegment: "constant",
	LocalSegment:    "local",
	ArgumentSegment: "argument",
	ThisSegment:     "this",
	ThatSegment:     "that",
	PointerSegment:  "pointer",
	TempSegment:     "temp",
	StaticSegment:   "static",
}

func (s Segment) String() string {
	if s < 0 || int(s) >= len(segmentNames) {
		return "Segment(" + strconv.Itoa(int(s)) + ")"
	}
	return segmentNames[s]
}

var keyWordsMap = map[string]Kind{
	"PUSH":     PushCommand,
	"POP":      PopCommand,
	"ADD":      AddCommand,
	"SUB":      SubCommand,
	"NEG":      NegCommand,
	"EQ":       EqCommand,
	"GT":       GtCommand,
	"LT":       LtCommand,
	"AND":      AndCommand,
	"OR":       OrCommand,
	"NOT":      NotCommand,
	"LABEL":    LabelCommand,
	"GOTO":     GotoCommand,
	"IF-GOTO":  IfGotoCommand,
	"FUNCTION": FunctionCommand,
	"CALL":     CallCommand,
	"RETURN":   ReturnCommand,
}

var segmentsMap = map[string]Segment{
	"CONSTANT": ConstantSegment,
	"LOCAL":    LocalSegment,
	"ARGUMENT": ArgumentSegment,
	"THIS":     ThisSegment,
	"THAT":     ThatSegment,
	"POINTER":  PointerSegment,
	"TEMP":     TempSegment,
	"STATIC":   StaticSegment,
}

// Command is one parsed vm command. Segment and Index are set for push and pop,
// Name for label, goto, if-goto, function and call, Index for function (the
// number of locals) and call (the number of arguments).
type Command struct {
	Kind    Kind
	Segment Segment
	Index   int
	Name    string
}

func (c Command) String() string {
	switch c.Kind {
	case PushCommand, PopCommand:
		return c.Kind.String() + " " + c.Segment.String() + " " + strconv.Itoa(c.Index)
	case LabelCommand, GotoCommand, IfGotoCommand:
		return c.Kind.String() + " " + c.Name
	case FunctionCommand, CallCommand:
		return c.Kind.String() + " " + c.Name + " " + strconv.Itoa(c.Index)
	default:
		return c.Kind.String()
	}
}

// ParseCommand classifies one stripped, non-empty vm line.
func ParseCommand(line string) (Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Command{}, makeError(ErrUnrecognizedCommand, "empty line")
	}
	kind, exist := keyWordsMap[strings.ToUpper(tokens[0])]
	if !exist {
		return Command{}, makeError(ErrUnrecognizedCommand, "%s", tokens[0])
	}
	operands := tokens[1:]
	if kind.IsArithmetic() || kind == ReturnCommand {
		if len(operands) != 0 {
			return Command{}, makeError(ErrUnrecognizedCommand, "%s takes no operands", kind)
		}
		return Command{Kind: kind}, nil
	}
	switch kind {
	case PushCommand, PopCommand:
		return parseMemoryAccess(kind, operands)
	case LabelCommand, GotoCommand, IfGotoCommand:
		if len(operands) != 1 {
			return Command{}, makeError(ErrUnrecognizedCommand, "%s expects a label name", kind)
		}
		name, err := parseSymbol(operands[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: kind, Name: name}, nil
	case FunctionCommand, CallCommand:
		if len(operands) == 0 || len(operands) > 2 {
			return Command{}, makeError(ErrUnrecognizedCommand, "%s expects a name and a count", kind)
		}
		name, err := parseSymbol(operands[0])
		if err != nil {
			return Command{}, err
		}
		if len(operands) == 1 {
			return Command{}, makeError(ErrInvalidOperand, "%s %s is missing its count", kind, name)
		}
		n, err := parseInteger(operands[1])
		if err != nil {
			return Command{}, err
		}
		if n < 0 {
			return Command{}, makeError(ErrInvalidOperand, "negative count %d", n)
		}
		return Command{Kind: kind, Name: name, Index: n}, nil
	default:
		return Command{}, makeError(ErrUnrecognizedCommand, "%s", tokens[0])
	}
}

func parseMemoryAccess(kind Kind, operands []string) (Command, error) {
	if len(operands) == 0 || len(operands) > 2 {
		return Command{}, makeError(ErrUnrecognizedCommand, "%s expects a segment and an index", kind)
	}
	segment, exist := segmentsMap[strings.ToUpper(operands[0])]
	if !exist {
		return Command{}, makeError(ErrUnknownSegment, "%s", operands[0])
	}
	if len(operands) == 1 {
		return Command{}, makeError(ErrInvalidOperand, "%s %s is missing its index", kind, segment)
	}
	index, err := parseInteger(operands[1])
	if err != nil {
		return Command{}, err
	}
	if segment != ConstantSegment && index < 0 {
		return Command{}, makeError(ErrInvalidOperand, "negative index %d for %s", index, segment)
	}
	return Command{Kind: kind, Segment: segment, Index: index}, nil
}

// parseInteger parses a token as a hack word, i.e. a signed 16 bit integer.
func parseInteger(token string) (int, error) {
	value, err := strconv.ParseInt(token, 10, 16)
	if err != nil {
		return 0, makeError(ErrInvalidOperand, "%s is not a 16 bit integer", token)
	}
	return int(value), nil
}

func parseSymbol(token string) (string, error) {
	if !util.IsSymbol(token) {
		return "", makeError(ErrInvalidOperand, "bad symbol %s", token)
	}
	return token, nil
}
