package types

import (
	"errors"
	"fmt"
)

// Command validation errors.
var (
	ErrLength               = errors.New("invalid command length")
	ErrUnknownCommand       = errors.New("unknown command code")
	ErrSymbolResolution     = errors.New("symbolic address can't be resolved")
	ErrMemoryType           = errors.New("invalid memory type")
	ErrDataSizeBits         = errors.New("invalid data size in bits")
	ErrDataSizeBytes        = errors.New("invalid data size in bytes")
	ErrAlignment            = errors.New("data and address not aligned")
	ErrRangeValidation      = errors.New("address range validation failed")
	ErrUnsupportedOperation = errors.New("unsupported operation kind")
	ErrInvalidFileName      = errors.New("invalid file name")
)

// File and transfer errors.
var (
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrFileSizeMismatch = errors.New("file size mismatch")
	ErrFileOpen         = errors.New("file open failed")
	ErrFileRead         = errors.New("file read failed")
	ErrFileWrite        = errors.New("file write failed")
	ErrFileClose        = errors.New("file close failed")
	ErrFileSeek         = errors.New("file seek failed")
	ErrFileStat         = errors.New("file stat failed")
	ErrPrimaryHeader    = errors.New("primary file header i/o failed")
	ErrSecondaryHeader  = errors.New("transfer file header i/o failed")
)

// Memory primitive errors. They wrap a *StatusError.
var (
	ErrMemoryRead     = errors.New("memory read failed")
	ErrMemoryWrite    = errors.New("memory write failed")
	ErrProtectedWrite = errors.New("protected memory write failed")
	ErrBankControl    = errors.New("protected write bank control failed")
)

// Configuration errors.
var (
	ErrInvalidLimits = errors.New("invalid transfer limits")
	ErrInvalidRegion = errors.New("invalid memory region")
	ErrSymbolTable   = errors.New("symbol table operation failed")
)

// Platform status codes carried by StatusError.
const (
	StatusError          int32 = -1
	StatusInvalidAddress int32 = -2
	StatusMisaligned     int32 = -3
	StatusWriteProtected int32 = -4
	StatusBankDisabled   int32 = -5
	StatusInvalidBank    int32 = -6
)

// PrimitiveError reports a failed platform primitive with its status code.
type PrimitiveError struct {
	Op      string
	Address uint64
	Status  int32
}

func (e *PrimitiveError) Error() string {
	return fmt.Sprintf("%s at 0x%08X: status %d", e.Op, e.Address, e.Status)
}

// StatusOf returns the primitive status code carried by err, if any.
func StatusOf(err error) (int32, bool) {
	var pe *PrimitiveError
	if errors.As(err, &pe) {
		return pe.Status, true
	}
	return 0, false
}
