// Package filehdr reads and writes the two headers at the start of every
// load/dump file: the generic primary header and the transfer header.
package filehdr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/mesh-intelligence/memmgr/internal/wire"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

type primaryWire struct {
	ContentType    uint32
	SubType        uint32
	Length         uint32
	SpacecraftID   uint32
	ProcessorID    uint32
	ApplicationID  uint32
	TimeSeconds    uint32
	TimeSubseconds uint32
	Description    [types.MaxDescription]byte
}

type transferWire struct {
	Offset    uint64
	Name      [types.MaxSymbolName]byte
	ByteCount uint32
	CRC       uint32
	Class     uint8
	Padding   [3]byte
}

// Subseconds are in units of 2^-32 seconds.
const subsecondsPerSecond = 1 << 32

// EncodePrimary returns the wire form of p.
func EncodePrimary(p types.PrimaryHeader) []byte {
	pw := primaryWire{
		ContentType:   p.ContentType,
		SubType:       p.SubType,
		Length:        types.PrimaryHeaderSize,
		SpacecraftID:  p.SpacecraftID,
		ProcessorID:   p.ProcessorID,
		ApplicationID: p.ApplicationID,
	}
	if !p.Created.IsZero() {
		pw.TimeSeconds = uint32(p.Created.Unix())
		pw.TimeSubseconds = uint32(uint64(p.Created.Nanosecond()) * subsecondsPerSecond / uint64(time.Second))
	}
	wire.PutCString(pw.Description[:], p.Description)
	return encode(&pw)
}

// EncodeTransfer returns the wire form of t.
func EncodeTransfer(t types.TransferHeader) []byte {
	tw := transferWire{
		Offset:    t.Address.Offset(),
		ByteCount: t.ByteCount,
		CRC:       t.CRC,
		Class:     uint8(t.Class),
	}
	wire.PutCString(tw.Name[:], t.Address.Name())
	return encode(&tw)
}

func encode(v any) []byte {
	var buf bytes.Buffer
	// Writes into a bytes.Buffer of fixed-size structs cannot fail.
	_ = binary.Write(&buf, wire.Order, v)
	return buf.Bytes()
}

// Write writes the primary header followed by the transfer header. A short
// write is an error even when the writer reports none.
func Write(w io.Writer, p types.PrimaryHeader, t types.TransferHeader) error {
	if err := writeFull(w, EncodePrimary(p), types.ErrPrimaryHeader); err != nil {
		return err
	}
	return writeFull(w, EncodeTransfer(t), types.ErrSecondaryHeader)
}

func writeFull(w io.Writer, b []byte, kind error) error {
	n, err := w.Write(b)
	if err != nil {
		return fmt.Errorf("%w: wrote %d of %d bytes: %v", kind, n, len(b), err)
	}
	if n != len(b) {
		return fmt.Errorf("%w: wrote %d of %d bytes", kind, n, len(b))
	}
	return nil
}

// Read reads the primary header followed by the transfer header.
func Read(r io.Reader) (types.PrimaryHeader, types.TransferHeader, error) {
	var pw primaryWire
	if err := readFull(r, &pw, types.PrimaryHeaderSize, types.ErrPrimaryHeader); err != nil {
		return types.PrimaryHeader{}, types.TransferHeader{}, err
	}
	var tw transferWire
	if err := readFull(r, &tw, types.TransferHeaderSize, types.ErrSecondaryHeader); err != nil {
		return types.PrimaryHeader{}, types.TransferHeader{}, err
	}

	p := types.PrimaryHeader{
		ContentType:   pw.ContentType,
		SubType:       pw.SubType,
		SpacecraftID:  pw.SpacecraftID,
		ProcessorID:   pw.ProcessorID,
		ApplicationID: pw.ApplicationID,
		Description:   wire.CString(pw.Description[:]),
	}
	if pw.TimeSeconds != 0 || pw.TimeSubseconds != 0 {
		nanos := uint64(pw.TimeSubseconds) * uint64(time.Second) / subsecondsPerSecond
		p.Created = time.Unix(int64(pw.TimeSeconds), int64(nanos)).UTC()
	}
	t := types.TransferHeader{
		Address:   types.FromWire(wire.CString(tw.Name[:]), tw.Offset),
		ByteCount: tw.ByteCount,
		CRC:       tw.CRC,
		Class:     types.MemoryClass(tw.Class),
	}
	return p, t, nil
}

func readFull(r io.Reader, v any, size int, kind error) error {
	buf := make([]byte, size)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return fmt.Errorf("%w: read %d of %d bytes: %v", kind, n, size, err)
	}
	return binary.Read(bytes.NewReader(buf), wire.Order, v)
}
