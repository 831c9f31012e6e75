// Package notice defines the notice identifiers emitted by the memory
// manager and the emitters that deliver them.
package notice

import (
	"errors"

	"github.com/mesh-intelligence/memmgr/pkg/types"
)

// Informational notices.
const (
	InitInfo types.EventID = iota + 1
	NoOpInfo
	ResetInfo
	PeekInfo
	PokeInfo
	ProtectedPokeInfo
	LoadWIDInfo
	LoadFileInfo
	DumpFileInfo
	DumpInEventInfo
	FillInfo
	FillTruncatedInfo
	SymbolLookupInfo
	SymbolTableSaveInfo
	ProtectedWriteEnableInfo
	ProtectedWriteDisableInfo
)

// Error notices.
const (
	LengthErr types.EventID = iota + 32
	UnknownCommandErr
	SymbolResolutionErr
	MemoryTypeErr
	DataSizeBitsErr
	DataSizeBytesErr
	AlignmentErr
	RangeErr
	ChecksumErr
	FileSizeErr
	FileOpenErr
	FileReadErr
	FileWriteErr
	FileCloseErr
	FileSeekErr
	FileStatErr
	PrimaryHeaderErr
	SecondaryHeaderErr
	MemoryReadErr
	MemoryWriteErr
	ProtectedWriteErr
	BankControlErr
	SymbolTableErr
	FileNameErr
	CommandErr
)

// errorIDs is checked in order; the first sentinel err wraps wins. File
// header errors precede the generic file errors they may also wrap.
var errorIDs = []struct {
	err error
	id  types.EventID
}{
	{types.ErrLength, LengthErr},
	{types.ErrUnknownCommand, UnknownCommandErr},
	{types.ErrSymbolResolution, SymbolResolutionErr},
	{types.ErrMemoryType, MemoryTypeErr},
	{types.ErrDataSizeBits, DataSizeBitsErr},
	{types.ErrDataSizeBytes, DataSizeBytesErr},
	{types.ErrAlignment, AlignmentErr},
	{types.ErrRangeValidation, RangeErr},
	{types.ErrChecksumMismatch, ChecksumErr},
	{types.ErrFileSizeMismatch, FileSizeErr},
	{types.ErrPrimaryHeader, PrimaryHeaderErr},
	{types.ErrSecondaryHeader, SecondaryHeaderErr},
	{types.ErrFileOpen, FileOpenErr},
	{types.ErrFileRead, FileReadErr},
	{types.ErrFileWrite, FileWriteErr},
	{types.ErrFileClose, FileCloseErr},
	{types.ErrFileSeek, FileSeekErr},
	{types.ErrFileStat, FileStatErr},
	{types.ErrProtectedWrite, ProtectedWriteErr},
	{types.ErrMemoryWrite, MemoryWriteErr},
	{types.ErrMemoryRead, MemoryReadErr},
	{types.ErrBankControl, BankControlErr},
	{types.ErrSymbolTable, SymbolTableErr},
	{types.ErrInvalidFileName, FileNameErr},
}

// ErrorID returns the notice identifier describing err.
func ErrorID(err error) types.EventID {
	for _, e := range errorIDs {
		if errors.Is(err, e.err) {
			return e.id
		}
	}
	return CommandErr
}
