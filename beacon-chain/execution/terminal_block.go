package execution

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/config/params"
	pb "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// terminalTotalDifficulty parses the configured terminal total difficulty.
func terminalTotalDifficulty() (*uint256.Int, error) {
	ttd, err := uint256.FromDecimal(params.BeaconConfig().TerminalTotalDifficulty)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidTerminalTotalDifficulty, "%q: %v", params.BeaconConfig().TerminalTotalDifficulty, err)
	}
	return ttd, nil
}

func totalDifficulty(blk *pb.ExecutionBlock) (*uint256.Int, error) {
	b, err := hexutil.DecodeBig(blk.TotalDifficulty)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode total difficulty of block %#x", blk.Hash)
	}
	td, overflows := uint256.FromBig(b)
	if overflows {
		return nil, errors.Errorf("total difficulty of block %#x overflows uint256", blk.Hash)
	}
	return td, nil
}

// validTerminalPowBlock ensures the block reached the terminal total difficulty while its parent did not.
//
// Pseudocode definition:
//
//	def is_valid_terminal_pow_block(block: PowBlock, parent: PowBlock) -> bool:
//	    is_total_difficulty_reached = block.total_difficulty >= TERMINAL_TOTAL_DIFFICULTY
//	    is_parent_total_difficulty_valid = parent.total_difficulty < TERMINAL_TOTAL_DIFFICULTY
//	    return is_total_difficulty_reached and is_parent_total_difficulty_valid
func validTerminalPowBlock(blkTD, parentTD, ttd *uint256.Int) bool {
	return blkTD.Cmp(ttd) >= 0 && parentTD.Cmp(ttd) < 0
}

// IsValidTerminalPowBlockHash checks whether the block with the given hash is the terminal proof-of-work
// block. The second return value is false when the execution client does not know the block or its parent,
// in which case the first value carries no information.
func (s *Service) IsValidTerminalPowBlockHash(ctx context.Context, hash common.Hash) (bool, bool, error) {
	ctx, span := trace.StartSpan(ctx, "execution.IsValidTerminalPowBlockHash")
	defer span.End()

	ttd, err := terminalTotalDifficulty()
	if err != nil {
		return false, false, err
	}
	blk, err := s.ExecutionBlockByHash(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, errors.Wrap(err, "could not get execution block")
	}
	parent, err := s.ExecutionBlockByHash(ctx, blk.ParentHash)
	if errors.Is(err, ethereum.NotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, errors.Wrap(err, "could not get parent execution block")
	}
	blkTD, err := totalDifficulty(blk)
	if err != nil {
		return false, false, err
	}
	parentTD, err := totalDifficulty(parent)
	if err != nil {
		return false, false, err
	}
	valid := validTerminalPowBlock(blkTD, parentTD, ttd)
	log.WithFields(logrus.Fields{
		"hash":                    hash.Hex(),
		"totalDifficulty":         blkTD.Dec(),
		"parentTotalDifficulty":   parentTD.Dec(),
		"terminalTotalDifficulty": ttd.Dec(),
		"valid":                   valid,
	}).Debug("Checked terminal proof-of-work block")
	return valid, true, nil
}

// GetTerminalPowBlockHash returns the hash of the terminal proof-of-work block. When a terminal block hash
// override is configured only that block is considered. The second return value is false when no terminal
// block has been found yet.
func (s *Service) GetTerminalPowBlockHash(ctx context.Context) (common.Hash, bool, error) {
	ctx, span := trace.StartSpan(ctx, "execution.GetTerminalPowBlockHash")
	defer span.End()

	if override := params.BeaconConfig().TerminalBlockHash; override != [32]byte{} {
		_, err := s.ExecutionBlockByHash(ctx, override)
		if errors.Is(err, ethereum.NotFound) {
			return common.Hash{}, false, nil
		}
		if err != nil {
			return common.Hash{}, false, errors.Wrap(err, "could not get terminal block hash override")
		}
		return override, true, nil
	}

	ttd, err := terminalTotalDifficulty()
	if err != nil {
		return common.Hash{}, false, err
	}
	blk, err := s.LatestExecutionBlock(ctx)
	if err != nil {
		return common.Hash{}, false, errors.Wrap(err, "could not get latest execution block")
	}
	blkTD, err := totalDifficulty(blk)
	if err != nil {
		return common.Hash{}, false, err
	}
	if blkTD.Cmp(ttd) < 0 {
		return common.Hash{}, false, nil
	}
	// Walk back until the parent is below the terminal total difficulty.
	for {
		if ctx.Err() != nil {
			return common.Hash{}, false, ctx.Err()
		}
		if blk.ParentHash == params.BeaconConfig().ZeroHash {
			return blk.Hash, true, nil
		}
		parent, err := s.ExecutionBlockByHash(ctx, blk.ParentHash)
		if err != nil {
			return common.Hash{}, false, errors.Wrap(err, "could not get parent execution block")
		}
		parentTD, err := totalDifficulty(parent)
		if err != nil {
			return common.Hash{}, false, err
		}
		if parentTD.Cmp(ttd) < 0 {
			return blk.Hash, true, nil
		}
		blk = parent
	}
}
