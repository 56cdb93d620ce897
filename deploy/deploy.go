package deploy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/METADIUM/MetaResolvers/common"
	"github.com/METADIUM/MetaResolvers/contracts"
	"github.com/METADIUM/MetaResolvers/contracts/publickey"
	"github.com/METADIUM/MetaResolvers/contracts/servicekey"
	"github.com/benbjohnson/clock"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// ResolverPrm groups deployment parameters of a single resolver. Zero
// values are replaced with the embedded defaults.
type ResolverPrm struct {
	// Address of the resolver. Derived from the owner and the resolver name
	// if zero.
	Hash util.Uint160

	// Initial validity period of mandates.
	SignatureTimeout time.Duration
}

// Prm groups all parameters of the resolvers deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Identity registry both resolvers work against.
	Registry common.IdentityRegistry

	// Account allowed to reconfigure the resolvers.
	Owner util.Uint160

	// Storage shared by the resolvers. Defaults to an in-memory store.
	Store storage.Store

	// Source of invocation time. Defaults to the system clock.
	Clock clock.Clock

	PublicKeyResolver  ResolverPrm
	ServiceKeyResolver ResolverPrm
}

// Resolvers groups deployed resolvers.
type Resolvers struct {
	PublicKey  *publickey.Contract
	ServiceKey *servicekey.Contract
}

// Deploy initializes both resolvers over the shared Prm.Store. Deployment
// over a store already holding resolver state keeps it, so Deploy may be
// called on every start of the application.
//
// Summary of stages:
//  1. embedded resolver descriptors are read
//  2. missing parameters are filled from the descriptors
//  3. the public key resolver is deployed
//  4. the service key resolver is deployed
func Deploy(ctx context.Context, prm Prm) (*Resolvers, error) {
	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}
	if prm.Registry == nil {
		return nil, errors.New("missing identity registry")
	}
	if prm.Owner.Equals(util.Uint160{}) {
		return nil, errors.New("missing resolvers owner")
	}
	if prm.Store == nil {
		prm.Store = storage.NewMemoryStore()
	}

	pkDesc, err := contracts.GetPublicKeyResolver()
	if err != nil {
		return nil, fmt.Errorf("read public key resolver descriptor: %w", err)
	}

	skDesc, err := contracts.GetServiceKeyResolver()
	if err != nil {
		return nil, fmt.Errorf("read service key resolver descriptor: %w", err)
	}

	var res Resolvers

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	pkPrm := contractPrm(prm, pkDesc, prm.PublicKeyResolver)
	prm.Logger.Info("deploying public key resolver...", zap.Stringer("address", pkPrm.Hash))

	res.PublicKey, err = publickey.New(pkPrm)
	if err != nil {
		return nil, err
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	skPrm := contractPrm(prm, skDesc, prm.ServiceKeyResolver)
	if skPrm.Hash.Equals(pkPrm.Hash) {
		return nil, fmt.Errorf("resolvers have the same address %s", skPrm.Hash.StringLE())
	}
	prm.Logger.Info("deploying service key resolver...", zap.Stringer("address", skPrm.Hash))

	res.ServiceKey, err = servicekey.New(skPrm)
	if err != nil {
		return nil, err
	}

	prm.Logger.Info("resolvers successfully deployed")

	return &res, nil
}

// ResolverAddress returns the default address of the resolver with the given
// name owned by the account.
func ResolverAddress(owner util.Uint160, name string) util.Uint160 {
	return state.CreateContractHash(owner, 0, name)
}

func contractPrm(prm Prm, desc contracts.Contract, r ResolverPrm) common.ContractPrm {
	res := common.ContractPrm{
		Hash:             r.Hash,
		Owner:            prm.Owner,
		Registry:         prm.Registry,
		SignatureTimeout: r.SignatureTimeout,
		Store:            prm.Store,
		Clock:            prm.Clock,
		Logger:           prm.Logger.With(zap.String("resolver", desc.Config.Name)),
	}
	if res.Hash.Equals(util.Uint160{}) {
		res.Hash = ResolverAddress(prm.Owner, desc.Config.Name)
	}
	if res.SignatureTimeout == 0 {
		res.SignatureTimeout = desc.Config.SignatureTimeout
	}
	return res
}
