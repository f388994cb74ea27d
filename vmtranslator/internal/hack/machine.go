package hack

import (
	"errors"
	"fmt"
)

// RAMSize covers the data memory, the screen map and the keyboard register.
const RAMSize = 1 << 15

var ErrStepLimit = errors.New("step limit reached")

// Machine is a model of the hack CPU running a program from ROM. It has no
// devices, SCREEN and KBD are plain memory.
//
// A C instruction is laid out as 111a c1c2c3c4c5c6 d1d2d3 j1j2j3, the c bits
// drive the ALU: zx nx zy ny f no.
type Machine struct {
	RAM   [RAMSize]int16
	A     int16
	D     int16
	PC    int
	Steps int
	rom   []uint16
}

func NewMachine(program []uint16) *Machine {
	return &Machine{rom: program}
}

// Halted reports whether PC left the program.
func (m *Machine) Halted() bool {
	return m.PC < 0 || m.PC >= len(m.rom)
}

// Step executes one instruction.
func (m *Machine) Step() error {
	if m.Halted() {
		return nil
	}
	ins := m.rom[m.PC]
	m.Steps++
	if ins&0x8000 == 0 {
		m.A = int16(ins)
		m.PC++
		return nil
	}
	addr := int(uint16(m.A))
	y := m.A
	if ins&0x1000 != 0 {
		if addr >= RAMSize {
			return fmt.Errorf("read of RAM[%d] at pc %d", addr, m.PC)
		}
		y = m.RAM[addr]
	}
	out := alu(m.D, y, (ins>>6)&0x3f)
	if ins&0x0008 != 0 {
		if addr >= RAMSize {
			return fmt.Errorf("write of RAM[%d] at pc %d", addr, m.PC)
		}
		m.RAM[addr] = out
	}
	if ins&0x0020 != 0 {
		m.A = out
	}
	if ins&0x0010 != 0 {
		m.D = out
	}
	jump := (ins&0x4 != 0 && out < 0) || (ins&0x2 != 0 && out == 0) || (ins&0x1 != 0 && out > 0)
	if jump {
		m.PC = addr
	} else {
		m.PC++
	}
	return nil
}

// Run executes until the program halts or maxSteps instructions ran.
func (m *Machine) Run(maxSteps int) error {
	return m.RunUntil(-1, maxSteps)
}

// RunUntil executes until PC reaches pc, the program halts, or maxSteps
// instructions ran.
func (m *Machine) RunUntil(pc int, maxSteps int) error {
	for i := 0; i < maxSteps; i++ {
		if m.Halted() || m.PC == pc {
			return nil
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	if m.Halted() || m.PC == pc {
		return nil
	}
	return ErrStepLimit
}

func alu(x, y int16, control uint16) int16 {
	if control&0x20 != 0 {
		x = 0
	}
	if control&0x10 != 0 {
		x = ^x
	}
	if control&0x08 != 0 {
		y = 0
	}
	if control&0x04 != 0 {
		y = ^y
	}
	var out int16
	if control&0x02 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if control&0x01 != 0 {
		out = ^out
	}
	return out
}
