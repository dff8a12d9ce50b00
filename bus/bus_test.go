package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDevice struct {
	reads  []uint16
	writes []byte
}

func (d *recordingDevice) Read(addr uint16) byte {
	d.reads = append(d.reads, addr)
	return 0
}

func (d *recordingDevice) Write(addr uint16, data byte) {
	d.writes = append(d.writes, data)
}

func TestReadWriteFallsThroughToRam(t *testing.T) {
	b := NewFlatBus()
	b.Write(0x1234, 0x42)
	assert.Equal(t, byte(0x42), b.Read(0x1234))
}

func TestAttachRoutesRangeToDevice(t *testing.T) {
	b := NewFlatBus()
	dev := &recordingDevice{}
	require.NoError(t, b.Attach(0xA000, 0xA001, dev))

	b.Write(0xA000, 'H')
	b.Write(0xA000, 'i')
	_ = b.Read(0xA000)

	assert.Equal(t, []byte{'H', 'i'}, dev.writes)
	assert.Equal(t, []uint16{0xA000}, dev.reads)
}

func TestAttachRejectsOverlappingRanges(t *testing.T) {
	b := NewFlatBus()
	require.NoError(t, b.Attach(0xA000, 0xA010, &recordingDevice{}))

	err := b.Attach(0xA008, 0xA020, &recordingDevice{})
	require.Error(t, err)
}

func TestAttachRejectsEmptyRange(t *testing.T) {
	b := NewFlatBus()
	err := b.Attach(0xA000, 0xA000, &recordingDevice{})
	require.Error(t, err)
}

func TestLoadBytesAndWriteVector(t *testing.T) {
	b := NewFlatBus()
	b.LoadBytes(0x8000, []byte{0xEA, 0xEA})
	b.WriteVector(0xFFFC, 0x8000)

	assert.Equal(t, byte(0xEA), b.Read(0x8000))
	assert.Equal(t, byte(0x00), b.Read(0xFFFC))
	assert.Equal(t, byte(0x80), b.Read(0xFFFD))
}

func TestAdjacentRangesDoNotOverlap(t *testing.T) {
	b := NewFlatBus()
	require.NoError(t, b.Attach(0xA000, 0xA001, &recordingDevice{}))
	require.NoError(t, b.Attach(0xA001, 0xA002, &recordingDevice{}))
}
