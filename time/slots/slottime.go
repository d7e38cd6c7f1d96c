package slots

import (
	"fmt"
	"math/bits"
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/config/params"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
)

var errOverflow = errors.New("integer overflow")

// ToEpoch returns the epoch number of the input slot.
//
// Spec pseudocode definition:
//
//	def compute_epoch_at_slot(slot: Slot) -> Epoch:
//	  """
//	  Return the epoch number at ``slot``.
//	  """
//	  return Epoch(slot // SLOTS_PER_EPOCH)
func ToEpoch(slot primitives.Slot) primitives.Epoch {
	return primitives.Epoch(slot / params.BeaconConfig().SlotsPerEpoch)
}

// EpochStart returns the first slot number of the
// current epoch.
func EpochStart(epoch primitives.Epoch) (primitives.Slot, error) {
	hi, lo := bits.Mul64(uint64(epoch), uint64(params.BeaconConfig().SlotsPerEpoch))
	if hi != 0 {
		return 0, errors.Wrapf(errOverflow, "start slot calculation overflows: epoch %d", epoch)
	}
	return primitives.Slot(lo), nil
}

// ToTime takes the given slot and genesis time to determine the start time of the slot.
func ToTime(genesisTimeSec uint64, slot primitives.Slot) (time.Time, error) {
	offset, err := sinceGenesisSeconds(slot)
	if err != nil {
		return time.Time{}, err
	}
	sTime, carry := bits.Add64(genesisTimeSec, offset, 0)
	if carry != 0 || sTime > uint64(1<<63-1) {
		return time.Time{}, fmt.Errorf("slot (%d) is in the far distant future: %w", slot, errOverflow)
	}
	return time.Unix(int64(sTime), 0), nil // lint:ignore uintcast -- A timestamp will not exceed int64 in your lifetime.
}

func sinceGenesisSeconds(slot primitives.Slot) (uint64, error) {
	hi, lo := bits.Mul64(uint64(slot), params.BeaconConfig().SecondsPerSlot)
	if hi != 0 {
		return 0, fmt.Errorf("slot (%d) is in the far distant future: %w", slot, errOverflow)
	}
	return lo, nil
}

// Since computes the number of time slots that have occurred since the given timestamp.
func Since(genesis time.Time) primitives.Slot {
	return CurrentSlot(uint64(genesis.Unix()))
}

// CurrentSlot returns the current slot as determined by the local clock and
// provided genesis time.
func CurrentSlot(genesisTimeSec uint64) primitives.Slot {
	now := uint64(time.Now().Unix())
	if now < genesisTimeSec {
		return 0
	}
	return primitives.Slot((now - genesisTimeSec) / params.BeaconConfig().SecondsPerSlot)
}
