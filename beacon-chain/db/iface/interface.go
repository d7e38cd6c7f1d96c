// Package iface declares the storage contracts of the node.
package iface

import (
	"context"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	ethpb "github.com/prysmaticlabs/enginebridge/proto/prysm/v1alpha1"
)

// ReadOnlyDatabase reads blinded blocks and per validator proposer settings.
type ReadOnlyDatabase interface {
	// BlindedBlock returns nil and no error for an unknown root.
	BlindedBlock(ctx context.Context, blockRoot [32]byte) (interfaces.ReadOnlySignedBeaconBlock, error)
	HasBlock(ctx context.Context, blockRoot [32]byte) bool

	FeeRecipientByValidatorID(ctx context.Context, id primitives.ValidatorIndex) (common.Address, error)
	RegistrationByValidatorID(ctx context.Context, id primitives.ValidatorIndex) (*ethpb.ValidatorRegistrationV1, error)
}

// NoHeadAccessDatabase adds writes to ReadOnlyDatabase.
type NoHeadAccessDatabase interface {
	ReadOnlyDatabase

	// SaveBlindedBlock stores blk with its payload replaced by the header.
	SaveBlindedBlock(ctx context.Context, blk blocks.ROBlock) error
	DeleteBlock(ctx context.Context, blockRoot [32]byte) error

	SaveFeeRecipientsByValidatorIDs(ctx context.Context, ids []primitives.ValidatorIndex, addrs []common.Address) error
	SaveRegistrationsByValidatorIDs(ctx context.Context, ids []primitives.ValidatorIndex, regs []*ethpb.ValidatorRegistrationV1) error
}

// Database is the complete store, including lifecycle methods.
type Database interface {
	io.Closer
	NoHeadAccessDatabase

	DatabasePath() string
	ClearDB() error
}
