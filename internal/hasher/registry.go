package hasher

import (
	"fmt"
	"strings"
)

// Info describes one registered algorithm for display purposes.
type Info struct {
	Name    string
	Bits    int
	Default bool
}

type entry struct {
	name      string
	bits      int
	construct func() Accumulator
}

// The registry is read-only after process start. Listing order here is
// the order Identifiers and Algorithms report.
var registry = []entry{
	{name: "xxh64", bits: 64, construct: newXXH64},
	{name: "xxh3", bits: 128, construct: newXXH3},
	{name: "blake3", bits: 256, construct: newBLAKE3},
}

const defaultName = "xxh64"

// Default returns the identifier used when no explicit hash list is
// supplied.
func Default() string { return defaultName }

// Identifiers returns the supported algorithm names in listing order.
func Identifiers() []string {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	return names
}

// Algorithms returns display metadata for every registered algorithm.
func Algorithms() []Info {
	infos := make([]Info, len(registry))
	for i, e := range registry {
		infos[i] = Info{Name: e.name, Bits: e.bits, Default: e.name == defaultName}
	}
	return infos
}

// Construct returns a fresh Accumulator for the given identifier. It
// fails only for identifiers absent from the registry, which cannot
// happen for a validated hash list.
func Construct(identifier string) (Accumulator, error) {
	for _, e := range registry {
		if e.name == identifier {
			return e.construct(), nil
		}
	}
	return nil, fmt.Errorf("unsupported hash algorithm %q", identifier)
}

// Validate normalizes a comma-separated list of algorithm identifiers
// (whitespace stripped, lower-cased) and partitions it into supported
// and unsupported names, preserving input order within each partition.
// Refusing to run on a non-empty invalid partition is the caller's
// policy decision.
func Validate(list string) (valid, invalid []string) {
	cleaned := strings.ToLower(strings.ReplaceAll(list, " ", ""))
	for _, candidate := range strings.Split(cleaned, ",") {
		if supported(candidate) {
			valid = append(valid, candidate)
		} else {
			invalid = append(invalid, candidate)
		}
	}
	return valid, invalid
}

func supported(name string) bool {
	for _, e := range registry {
		if e.name == name {
			return true
		}
	}
	return false
}
