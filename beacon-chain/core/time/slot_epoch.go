package time

import (
	"github.com/prysmaticlabs/enginebridge/beacon-chain/state"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	"github.com/prysmaticlabs/enginebridge/time/slots"
)

// CurrentEpoch returns the current epoch number calculated from
// the slot number stored in beacon state.
//
// Pseudocode definition:
//
//	def get_current_epoch(state: BeaconState) -> Epoch:
//	  """
//	  Return the current epoch.
//	  """
//	  return compute_epoch_at_slot(state.slot)
func CurrentEpoch(state state.ReadOnlyBeaconState) primitives.Epoch {
	return slots.ToEpoch(state.Slot())
}
