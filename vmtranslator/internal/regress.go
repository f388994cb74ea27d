package internal

import (
	"os"
	"path/filepath"
)

// LengthMismatch is a generated file whose size differs from its reference.
type LengthMismatch struct {
	Name      string
	Generated int64
	Reference int64
}

// CompareLengths compares every .asm file of generatedDir with the file of the
// same name in referenceDir by byte length. Files without a reference are
// skipped. It only catches unintended drift of the output, not its meaning.
func CompareLengths(generatedDir, referenceDir string) ([]LengthMismatch, error) {
	entries, err := os.ReadDir(generatedDir)
	if err != nil {
		return nil, err
	}
	var mismatches []LengthMismatch
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != AsmExtension {
			continue
		}
		reference, err := os.Stat(filepath.Join(referenceDir, entry.Name()))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		generated, err := entry.Info()
		if err != nil {
			return nil, err
		}
		if generated.Size() != reference.Size() {
			mismatches = append(mismatches, LengthMismatch{
				Name:      entry.Name(),
				Generated: generated.Size(),
				Reference: reference.Size(),
			})
		}
	}
	return mismatches, nil
}
