package debug

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"go6502/cpu"
)

// model is the bubbletea model driving the step debugger. Its shape
// follows hejops-gone/cpu/debugger.go: a thin wrapper around the Cpu
// that advances it on keypress and renders register, flag, scratch
// stack and bus-trace state on every Update.
type model struct {
	cpu   *cpu.Cpu
	trace *TracingBus

	mode  stepMode
	err   error
	quit  bool
	ticks int
}

type stepMode int

const (
	stepCycle stepMode = iota
	stepInstruction
)

// Run starts the interactive debugger against an already-reset Cpu
// driven through trace. It blocks until the user quits.
func Run(c *cpu.Cpu, trace *TracingBus) error {
	m := model{cpu: c, trace: trace}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	fm := final.(model)
	return fm.err
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "c":
		m.mode = stepCycle
	case "i":
		m.mode = stepInstruction
	case " ", "j", "n":
		if err := m.step(); err != nil {
			m.err = err
			return m, tea.Quit
		}
	}
	return m, nil
}

// step advances the Cpu by one cycle or one full instruction,
// depending on the debugger's current mode.
func (m *model) step() error {
	m.ticks++
	if m.mode == stepInstruction {
		_, err := m.cpu.StepInstruction()
		return err
	}
	m.cpu.Cycle()
	return nil
}

func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.registers(), m.flags(), m.scratch()),
		"",
		m.busLog(),
		"",
		spew.Sdump(cpu.Opcodes[m.cpu.Opcode]),
		"",
		"c: step cycle   i: step instruction   space/j/n: advance   q: quit",
	)
}

func (m model) registers() string {
	return fmt.Sprintf(`registers
PC: %#04x
 A: %#02x
 X: %#02x
 Y: %#02x
Sp: %#02x
cycles: %d
ticks: %d
`,
		m.cpu.Pc, m.cpu.A, m.cpu.X, m.cpu.Y, m.cpu.Sp, m.cpu.Cycles, m.ticks)
}

func (m model) flags() string {
	names := []struct {
		label string
		bit   cpu.StatusFlags
	}{
		{"N", cpu.FlagNegative},
		{"V", cpu.FlagOverflow},
		{"B", cpu.FlagBreak},
		{"D", cpu.FlagDecimal},
		{"I", cpu.FlagInterrupt},
		{"Z", cpu.FlagZero},
		{"C", cpu.FlagCarry},
	}
	var top, bottom strings.Builder
	for _, n := range names {
		fmt.Fprintf(&top, "%s ", n.label)
		if m.cpu.Status.Get(n.bit) {
			bottom.WriteString("1 ")
		} else {
			bottom.WriteString("0 ")
		}
	}
	return fmt.Sprintf("flags\n%s\n%s\n", top.String(), bottom.String())
}

func (m model) scratch() string {
	bytes := m.cpu.Scratch().Bytes()
	return fmt.Sprintf("scratch\n%02x\nremaining micro-ops: %d\n", bytes, m.cpu.PipelineRemaining())
}

func (m model) busLog() string {
	lines := []string{"recent bus transactions"}
	for _, t := range m.trace.Recent() {
		dir := "R"
		if t.Write {
			dir = "W"
		}
		lines = append(lines, fmt.Sprintf("%s %#04x = %#02x", dir, t.Addr, t.Data))
	}
	return strings.Join(lines, "\n")
}
