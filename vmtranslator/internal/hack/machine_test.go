package hack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, lines ...string) *Machine {
	program, err := Assemble(lines)
	require.Nil(t, err)
	return NewMachine(program.Words())
}

func TestMachine_Compute(t *testing.T) {
	data := []struct {
		comp string
		d    int16
		a    int16
		want int16
	}{
		{"0", 5, 3, 0},
		{"1", 5, 3, 1},
		{"-1", 5, 3, -1},
		{"D", 5, 3, 5},
		{"A", 5, 3, 3},
		{"!D", 5, 3, -6},
		{"-A", 5, 3, -3},
		{"D+1", 5, 3, 6},
		{"A-1", 5, 3, 2},
		{"D+A", 5, 3, 8},
		{"D-A", 5, 3, 2},
		{"A-D", 5, 3, -2},
		{"D&A", 6, 3, 2},
		{"D|A", 6, 3, 7},
	}
	for _, d := range data {
		m := load(t, "D="+d.comp)
		m.D, m.A = d.d, d.a
		require.Nil(t, m.Run(10))
		assert.Equal(t, d.want, m.D, d.comp)
	}
}

func TestMachine_Memory(t *testing.T) {
	m := load(t, "@7", "D=A", "@100", "M=D", "M=M+1", "D=M", "@101", "AM=D+1", "M=-1")
	require.Nil(t, m.Run(100))
	assert.Equal(t, int16(8), m.RAM[100])
	assert.Equal(t, int16(-1), m.RAM[9])
	assert.Equal(t, int16(9), m.RAM[101])
	assert.True(t, m.Halted())
}

func TestMachine_Overflow(t *testing.T) {
	m := load(t, "@32767", "D=A", "D=D+1")
	require.Nil(t, m.Run(10))
	assert.Equal(t, int16(-32768), m.D)
}

func TestMachine_Jump(t *testing.T) {
	// Sums 1..4 into R1.
	m := load(t,
		"@4", "D=A", "@R0", "M=D",
		"(LOOP)",
		"@R0", "D=M", "@END", "D;JEQ",
		"@R1", "M=D+M", "@R0", "M=M-1",
		"@LOOP", "0;JMP",
		"(END)",
	)
	require.Nil(t, m.Run(1000))
	assert.Equal(t, int16(10), m.RAM[1])
	assert.Equal(t, int16(0), m.RAM[0])
}

func TestMachine_StepLimit(t *testing.T) {
	m := load(t, "(LOOP)", "@LOOP", "0;JMP")
	assert.ErrorIs(t, m.Run(50), ErrStepLimit)
	assert.Equal(t, 50, m.Steps)

	m = load(t, "@1", "@2", "(STOP)", "@STOP", "0;JMP")
	require.Nil(t, m.RunUntil(2, 50))
	assert.Equal(t, 2, m.PC)
	assert.Equal(t, int16(2), m.A)
}
