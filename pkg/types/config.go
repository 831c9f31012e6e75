package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Region describes one range of the platform memory map.
type Region struct {
	Name  string `mapstructure:"name" yaml:"name" json:"name"`
	Class string `mapstructure:"class" yaml:"class" json:"class"`
	Base  uint64 `mapstructure:"base" yaml:"base" json:"base"`
	Size  uint64 `mapstructure:"size" yaml:"size" json:"size"`
	Bank  uint32 `mapstructure:"bank" yaml:"bank,omitempty" json:"bank,omitempty"`
}

// End returns the first address past the region.
func (r Region) End() uint64 { return r.Base + r.Size }

// Symbol is one entry of the symbol table.
type Symbol struct {
	Name    string `toml:"name" json:"name" mapstructure:"name" yaml:"name"`
	Address uint64 `toml:"address" json:"address" mapstructure:"address" yaml:"address"`
}

// Config holds everything mmctl needs to build a manager session.
type Config struct {
	DataDir               string   `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	LogLevel              string   `mapstructure:"log_level" yaml:"log_level,omitempty"`
	Classes               []string `mapstructure:"classes" yaml:"classes"`
	ProtectedBanksEnabled bool     `mapstructure:"protected_banks_enabled" yaml:"protected_banks_enabled"`
	MemoryMap             []Region `mapstructure:"memory_map" yaml:"memory_map"`
	Limits                Limits   `mapstructure:"limits" yaml:"limits"`
	Symbols               []Symbol `mapstructure:"symbols" yaml:"symbols,omitempty"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() Config {
	return Config{
		LogLevel:              "info",
		Classes:               []string{"mem8", "mem16", "mem32"},
		ProtectedBanksEnabled: true,
		MemoryMap: []Region{
			{Name: "ram", Class: "ram", Base: 0x00100000, Size: 0x00200000},
			{Name: "eeprom", Class: "protected", Base: 0x00400000, Size: 0x00040000, Bank: 0},
			{Name: "mem8", Class: "mem8", Base: 0x00500000, Size: 0x00040000},
			{Name: "mem16", Class: "mem16", Base: 0x00600000, Size: 0x00040000},
			{Name: "mem32", Class: "mem32", Base: 0x00700000, Size: 0x00040000},
		},
		Limits: DefaultLimits(),
	}
}

// Config validation errors.
var (
	ErrEmptyMemoryMap = errors.New("memory map is empty")
)

// Capabilities returns the width-restricted classes named in c.Classes.
func (c Config) Capabilities() (Capabilities, error) {
	return ParseCapabilities(c.Classes)
}

// Validate checks classes, limits and the memory map. Regions must have a
// name, a known class, a non-zero size, and must not overlap.
func (c Config) Validate() error {
	if _, err := c.Capabilities(); err != nil {
		return err
	}
	if err := c.Limits.Validate(); err != nil {
		return err
	}
	return ValidateMemoryMap(c.MemoryMap)
}

// ValidateMemoryMap checks that every region has a unique name, a known
// class and a non-zero size, and that no two regions overlap.
func ValidateMemoryMap(memoryMap []Region) error {
	if len(memoryMap) == 0 {
		return ErrEmptyMemoryMap
	}

	regions := make([]Region, len(memoryMap))
	copy(regions, memoryMap)
	sort.Slice(regions, func(i, j int) bool { return regions[i].Base < regions[j].Base })

	names := make(map[string]bool)
	for i, r := range regions {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("%w: region at 0x%08X has no name", ErrInvalidRegion, r.Base)
		}
		if names[r.Name] {
			return fmt.Errorf("%w: duplicate region %q", ErrInvalidRegion, r.Name)
		}
		names[r.Name] = true
		if _, err := ParseMemoryClass(r.Class); err != nil {
			return fmt.Errorf("%w: region %q: %v", ErrInvalidRegion, r.Name, err)
		}
		if r.Size == 0 || r.End() < r.Base {
			return fmt.Errorf("%w: region %q has invalid size 0x%X", ErrInvalidRegion, r.Name, r.Size)
		}
		if i > 0 && regions[i-1].End() > r.Base {
			return fmt.Errorf("%w: region %q overlaps %q", ErrInvalidRegion, r.Name, regions[i-1].Name)
		}
	}
	return nil
}
