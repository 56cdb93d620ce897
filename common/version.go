package common

import "fmt"

const (
	major = 0
	minor = 1
	patch = 0

	// Version is the version of resolver contracts implemented by this module.
	Version = major*1_000_000 + minor*1_000 + patch

	versionKey = "version"
)

// CheckVersion checks that the storage written by a resolver of version from
// can be served by the current one. Storage produced by a newer version is
// rejected.
func CheckVersion(from int) error {
	if from > Version {
		return fmt.Errorf("%w: storage version %d is newer than %d", ErrVersionMismatch, from, Version)
	}
	return nil
}
