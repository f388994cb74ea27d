package internal

import "math"

// frameSize is the number of cells call saves: return address, LCL, ARG, THIS, THAT.
const frameSize = 5

// Labels are written verbatim, keeping them unique across functions is left
// to the vm code.
func (w *CodeWriter) writeLabel(label string) {
	w.emit("(%s)", label)
}

func (w *CodeWriter) writeGoto(label string) {
	w.emit(`
		@%s
		0;JMP
		`, label)
}

// writeIfGoto pops the topmost element and jumps to label unless it is 0.
func (w *CodeWriter) writeIfGoto(label string) {
	w.popD()
	w.emit(`
		@%s
		D;JNE
		`, label)
}

// writeFunction declares function name with nLocals local variables, all
// initialized to 0 by pushing them.
func (w *CodeWriter) writeFunction(name string, nLocals int) {
	w.writeLabel(name)
	for i := 0; i < nLocals; i++ {
		w.loadConstant(0)
		w.pushD()
	}
	w.currentFunction = name
	w.staticCounter = 0
}

// writeCall calls function name after nArgs arguments have been pushed:
// push return-address, LCL, ARG, THIS, THAT
// ARG = SP-nArgs-5
// LCL = SP
// goto name
// (return-address)
func (w *CodeWriter) writeCall(name string, nArgs int) error {
	if nArgs+frameSize > math.MaxInt16 {
		return makeError(ErrInvalidOperand, "too many arguments %d", nArgs)
	}
	returnLabel := w.uniqueLabel("RETURN")
	w.emit("@%s\nD=A", returnLabel)
	w.pushD()
	for _, register := range []string{"LCL", "ARG", "THIS", "THAT"} {
		w.emit("@%s\nD=M", register)
		w.pushD()
	}
	w.emit(`
		@SP
		D=M
		@%d
		D=D-A
		@ARG
		M=D
		@SP
		D=M
		@LCL
		M=D
		@%s
		0;JMP
		(%s)
		`, nArgs+frameSize, name, returnLabel)
	return nil
}

// writeReturn copies the return value to where the caller's arguments started
// and restores the caller's frame:
// R13 = LCL                 // FRAME
// R14 = *(FRAME-5)          // return address, saved before *ARG overwrites it when there are no arguments
// *ARG = pop()
// SP = ARG+1
// THAT, THIS, ARG, LCL = *(FRAME-1), *(FRAME-2), *(FRAME-3), *(FRAME-4)
// goto R14
func (w *CodeWriter) writeReturn() error {
	if w.currentFunction == "" {
		return makeError(ErrMissingFrame, "no function declared before return")
	}
	w.emit(`
		@LCL
		D=M
		@%s
		M=D
		@%d
		A=D-A
		D=M
		@%s
		M=D
		`, scratchPointer, frameSize, scratchReturn)
	w.popD()
	w.emit(`
		@ARG
		A=M
		M=D
		@ARG
		D=M+1
		@SP
		M=D
		`)
	for _, register := range []string{"THAT", "THIS", "ARG", "LCL"} {
		w.emit(`
			@%s
			AM=M-1
			D=M
			@%s
			M=D
			`, scratchPointer, register)
	}
	w.emit(`
		@%s
		A=M
		0;JMP
		`, scratchReturn)
	return nil
}

// WriteInit writes the bootstrap code: SP=256, then call entry 0 when entry
// isn't empty.
func (w *CodeWriter) WriteInit(entry string) error {
	w.emit(`
		@%d
		D=A
		@SP
		M=D
		`, stackBase)
	if entry == "" {
		return nil
	}
	return w.writeCall(entry, 0)
}
