package device

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdoutWritesBytesAsPrinted(t *testing.T) {
	var buf bytes.Buffer
	dev := NewStdout(&buf)

	dev.Write(0xA000, 'H')
	dev.Write(0xA000, 'i')
	dev.Write(0xA000, '\n')

	assert.Equal(t, "Hi\n", buf.String())
}

func TestStdoutReadReturnsZero(t *testing.T) {
	var buf bytes.Buffer
	dev := NewStdout(&buf)
	assert.Equal(t, byte(0), dev.Read(0xA000))
}
