package hack

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestFormatCode(t *testing.T) {
	testData := []struct {
		addr int
		code string
	}{
		{0, "0000000000000000"},
		{1, "0000000000000001"},
		{2, "0000000000000010"},
		{256, "0000000100000000"},
		{32767, "0111111111111111"},
	}
	for _, data := range testData {
		assert.Equal(t, data.code, formatCode(data.addr))
	}
}

func TestTransformCCommand(t *testing.T) {
	type code struct {
		assembleCode string
		binaryCode   string
	}
	dest := []code{
		{assembleCode: "", binaryCode: "000"},
		{assembleCode: "M", binaryCode: "001"},
		{assembleCode: "D", binaryCode: "010"},
		{assembleCode: "MD", binaryCode: "011"},
		{assembleCode: "A", binaryCode: "100"},
		{assembleCode: "AM", binaryCode: "101"},
		{assembleCode: "AD", binaryCode: "110"},
		{assembleCode: "AMD", binaryCode: "111"},
	}
	comp := []code{
		{assembleCode: "0", binaryCode: "0101010"},
		{assembleCode: "-1", binaryCode: "0111010"},
		{assembleCode: "D", binaryCode: "0001100"},
		{assembleCode: "!A", binaryCode: "0110001"},
		{assembleCode: "-A", binaryCode: "0110011"},
		{assembleCode: "D+1", binaryCode: "0011111"},
		{assembleCode: "D-A", binaryCode: "0010011"},
		{assembleCode: "D|A", binaryCode: "0010101"},
		{assembleCode: "!M", binaryCode: "1110001"},
		{assembleCode: "-M", binaryCode: "1110011"},
		{assembleCode: "M-1", binaryCode: "1110010"},
		{assembleCode: "M+D", binaryCode: "1000010"},
		{assembleCode: "M-D", binaryCode: "1000111"},
		{assembleCode: "M&D", binaryCode: "1000000"},
		{assembleCode: "M|D", binaryCode: "1010101"},
	}
	jump := []code{
		{assembleCode: "", binaryCode: "000"},
		{assembleCode: "JGT", binaryCode: "001"},
		{assembleCode: "JEQ", binaryCode: "010"},
		{assembleCode: "JGE", binaryCode: "011"},
		{assembleCode: "JLT", binaryCode: "100"},
		{assembleCode: "JNE", binaryCode: "101"},
		{assembleCode: "JLE", binaryCode: "110"},
		{assembleCode: "JMP", binaryCode: "111"},
	}
	for _, destCode := range dest {
		for _, compCode := range comp {
			for _, jumpCode := range jump {
				line := compCode.assembleCode
				if destCode.assembleCode != "" {
					line = destCode.assembleCode + "=" + line
				}
				if jumpCode.assembleCode != "" {
					line = line + ";" + jumpCode.assembleCode
				}
				program, err := Assemble([]string{line})
				require.Nil(t, err, line)
				ins := program.Instructions[0]
				assert.Equal(t, CInstruction, ins.Tp, line)
				assert.Equal(t, "111"+compCode.binaryCode+destCode.binaryCode+jumpCode.binaryCode, ins.Code, line)
			}
		}
	}
}

func TestTransformBadCCommand(t *testing.T) {
	for _, line := range []string{"X=D", "D=D*A", "0;JXX", "M=M+2"} {
		_, err := Assemble([]string{line})
		assert.NotNil(t, err, line)
	}
}

func TestTransformLabelCommand(t *testing.T) {
	_, err := Assemble([]string{"(5shsl)"})
	assert.NotNil(t, err)
	_, err = Assemble([]string{"(hel4lo._)"})
	assert.Nil(t, err)
	_, err = Assemble([]string{"(hel4lo._)", "0;JMP", "(hel4lo._)"})
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestTransformADecimalCommand(t *testing.T) {
	program, err := Assemble([]string{"@10", "@32767"})
	require.Nil(t, err)
	assert.Equal(t, AConstant, program.Instructions[0].Tp)
	assert.Equal(t, "0000000000001010", program.Instructions[0].Code)
	assert.Equal(t, uint16(32767), program.Instructions[1].Word())

	for _, line := range []string{"@-1", "@32768", "@1x"} {
		_, err := Assemble([]string{line})
		assert.NotNil(t, err, line)
	}
}

func TestSymbolResolution(t *testing.T) {
	program, err := Assemble([]string{
		"@i",
		"M=0",
		"(LOOP)",
		"@$FALSE.0",
		"0;JMP",
		"($FALSE.0)",
		"@LOOP",
		"0;JMP",
		"@j",
		"@i",
		"@R13",
		"@SCREEN",
	})
	require.Nil(t, err)
	assert.Equal(t, 2, program.Labels["LOOP"])
	assert.Equal(t, 4, program.Labels["$FALSE.0"])
	assert.Equal(t, map[string]int{"i": 16, "j": 17}, program.Variables)
	words := program.Words()
	assert.Equal(t, uint16(16), words[0])
	assert.Equal(t, uint16(4), words[2])
	assert.Equal(t, uint16(2), words[4])
	assert.Equal(t, uint16(17), words[6])
	assert.Equal(t, uint16(16), words[7])
	assert.Equal(t, uint16(13), words[8])
	assert.Equal(t, uint16(16384), words[9])
	assert.Equal(t, ALabel, program.Instructions[2].Tp)
	assert.Equal(t, AVariable, program.Instructions[6].Tp)
}

func TestProgram_CheckVariables(t *testing.T) {
	var lines []string
	for i := 0; i < StackBase-variableBase; i++ {
		lines = append(lines, fmt.Sprintf("@v%d", i), "M=0")
	}
	program, err := Assemble(lines)
	require.Nil(t, err)
	assert.Equal(t, 255, program.Variables["v239"])
	assert.Nil(t, program.CheckVariables())

	program, err = Assemble(append(lines, "@v240", "M=0"))
	require.Nil(t, err)
	assert.Equal(t, StackBase, program.Variables["v240"])
	err = program.CheckVariables()
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "v240")
}

func TestAssembler_IntegrationTest(t *testing.T) {
	contents := `
// set M[11] = 10 + M[11]
@10
D=A
@11
M=M+D
@2
D=A // welcome
@i
M=D


// Loop M[11] = M[11] - 2 until M[11] < 0
(LOOP)
@i
D=M
@11
M=M-D // hello
D=M
@END
D;JLT
@LOOP
0;JMP

(END)
`
	program, err := NewAssembler().Parse(strings.NewReader(contents))
	require.Nil(t, err)
	assert.Len(t, program.Codes(), 17)
	assert.Equal(t, 8, program.Labels["LOOP"])
	assert.Equal(t, 17, program.Labels["END"])

	machine := NewMachine(program.Words())
	machine.RAM[11] = 3
	require.Nil(t, machine.Run(1000))
	assert.True(t, machine.Halted())
	assert.Equal(t, int16(-1), machine.RAM[11], fmt.Sprintf("after %d steps", machine.Steps))
}
