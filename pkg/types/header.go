package types

import "time"

// File layout sizes. Every load/dump file starts with a PrimaryHeader
// followed by a TransferHeader, then ByteCount payload bytes.
const (
	PrimaryHeaderSize  = 64
	TransferHeaderSize = 84
	HeaderOverhead     = PrimaryHeaderSize + TransferHeaderSize

	MaxDescription = 32
)

// Primary header identification.
const (
	ContentTypeCFE1  uint32 = 0x63464531 // "cFE1"
	SubTypeMemoryMgr uint32 = 0x4D4D5354 // "MMST"
)

// PrimaryHeader is the generic file header shared with other flight
// software file formats.
type PrimaryHeader struct {
	ContentType   uint32
	SubType       uint32
	SpacecraftID  uint32
	ProcessorID   uint32
	ApplicationID uint32
	Created       time.Time
	Description   string
}

// TransferHeader is the memory manager's secondary header. ByteCount and
// CRC always describe the payload that follows the headers.
type TransferHeader struct {
	Address   SymbolicAddress
	ByteCount uint32
	CRC       uint32
	Class     MemoryClass
}
