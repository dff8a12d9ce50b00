package cpu

import "github.com/pkg/errors"

// InvalidOpcodeError reports a fetch that decoded to a byte with no
// bound micro-op sequence, or the BRK trap. It is raised as a panic
// from within StepInstruction and is recovered at that boundary.
type InvalidOpcodeError struct {
	Opcode byte
	PC     uint16
	Reason string
}

func (e *InvalidOpcodeError) Error() string {
	if e.Reason != "" {
		return errors.Errorf("cpu: invalid opcode 0x%02X at 0x%04X: %s", e.Opcode, e.PC, e.Reason).Error()
	}
	return errors.Errorf("cpu: invalid opcode 0x%02X at 0x%04X", e.Opcode, e.PC).Error()
}
