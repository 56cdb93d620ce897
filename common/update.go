package common

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// ContractPrm groups construction parameters of a resolver.
type ContractPrm struct {
	// Address of the resolver. It is bound into every delegated mandate, so
	// it must be unique among resolvers sharing a registry. Required.
	Hash util.Uint160

	// Account allowed to change the signature timeout. Required on the first
	// deployment over the Store, ignored afterwards.
	Owner util.Uint160

	// Identity registry the resolver works against. Required.
	Registry IdentityRegistry

	// Initial signature timeout. Defaults to DefaultSignatureTimeout. Ignored
	// if the Store already holds resolver state.
	SignatureTimeout time.Duration

	// Backing key-value store. Defaults to a fresh in-memory store.
	Store storage.Store

	// Source of invocation time. Defaults to the system clock.
	Clock clock.Clock

	// Writes resolver activity into the log. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Deploy validates prm, prepares resolver storage and returns an Executor
// for it. If the Store already contains state of the resolver, its version
// is checked and the stored owner and signature timeout are kept.
func Deploy(prm ContractPrm) (*Executor, error) {
	switch {
	case prm.Registry == nil:
		return nil, errors.New("missing identity registry")
	case prm.Hash.Equals(util.Uint160{}):
		return nil, errors.New("missing resolver address")
	}

	if prm.SignatureTimeout == 0 {
		prm.SignatureTimeout = DefaultSignatureTimeout
	}
	if err := CheckSignatureTimeout(prm.SignatureTimeout); err != nil {
		return nil, fmt.Errorf("invalid signature timeout: %w", err)
	}

	exec := NewExecutor(prm.Hash, prm.Store, prm.Clock, prm.Logger)

	var isUpdate bool
	err := exec.Invoke(prm.Owner, "_deploy", func(ctx *Context) error {
		stored := ctx.Get([]byte(versionKey))
		isUpdate = stored != nil
		if isUpdate {
			if err := CheckVersion(int(GetInt(ctx, []byte(versionKey)))); err != nil {
				return err
			}
		} else {
			if prm.Owner.Equals(util.Uint160{}) {
				return errors.New("missing resolver owner")
			}
			ctx.Put([]byte(OwnerKey), prm.Owner.BytesBE())
			putSignatureTimeout(ctx, prm.SignatureTimeout)
		}

		PutInt(ctx, []byte(versionKey), Version)
		return nil
	})
	if err != nil {
		return nil, err
	}

	exec.log.Info("resolver initialized",
		zap.String("address", prm.Hash.StringBE()),
		zap.Bool("update", isUpdate),
		zap.Int("version", Version),
	)

	return exec, nil
}
