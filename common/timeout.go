package common

import (
	"fmt"
	"math/big"
	"time"
)

const (
	// DefaultSignatureTimeout is the validity period of delegated mandates
	// used when nothing else is configured.
	DefaultSignatureTimeout = 24 * time.Hour
	// MinSignatureTimeout is the lowest accepted signature timeout.
	MinSignatureTimeout = 30 * time.Minute
	// MaxSignatureTimeout is the highest accepted signature timeout.
	MaxSignatureTimeout = 7 * 24 * time.Hour

	signatureTimeoutKey = "signatureTimeout"
)

// CheckSignatureTimeout checks that d lies within [MinSignatureTimeout,
// MaxSignatureTimeout] and is a whole number of seconds.
func CheckSignatureTimeout(d time.Duration) error {
	switch {
	case d < MinSignatureTimeout:
		return fmt.Errorf("%w: timeout must be at least %s", ErrValidation, MinSignatureTimeout)
	case d > MaxSignatureTimeout:
		return fmt.Errorf("%w: timeout must be at most %s", ErrValidation, MaxSignatureTimeout)
	case d%time.Second != 0:
		return fmt.Errorf("%w: timeout must be a whole number of seconds", ErrValidation)
	}
	return nil
}

// SignatureTimeout returns the validity period of delegated mandates in
// seconds.
func SignatureTimeout(ctx *Context) uint64 {
	n := GetInt(ctx, []byte(signatureTimeoutKey))
	if n <= 0 {
		return uint64(DefaultSignatureTimeout / time.Second)
	}
	return uint64(n)
}

// SetSignatureTimeout stores the validity period of delegated mandates.
func SetSignatureTimeout(ctx *Context, d time.Duration) error {
	if err := CheckSignatureTimeout(d); err != nil {
		return err
	}

	seconds := putSignatureTimeout(ctx, d)
	ctx.Notify("SignatureTimeoutChanged", big.NewInt(seconds))
	return nil
}

func putSignatureTimeout(ctx *Context, d time.Duration) int64 {
	seconds := int64(d / time.Second)
	PutInt(ctx, []byte(signatureTimeoutKey), seconds)
	return seconds
}
