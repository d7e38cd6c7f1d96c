package state_native

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/enginebridge/consensus-types/blocks"
	"github.com/prysmaticlabs/enginebridge/consensus-types/interfaces"
	"github.com/prysmaticlabs/enginebridge/consensus-types/primitives"
	enginev1 "github.com/prysmaticlabs/enginebridge/proto/engine/v1"
	"github.com/prysmaticlabs/enginebridge/runtime/version"
)

func errNotSupported(funcName string, ver int) error {
	return fmt.Errorf("%s is not supported for %s", funcName, version.String(ver))
}

// SetSlot for the beacon state.
func (b *BeaconState) SetSlot(val primitives.Slot) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.slot = val
	return nil
}

// UpdateRandaoMixesAtIndex for the beacon state. Updates the randao mixes
// at a specific index to a new value.
func (b *BeaconState) UpdateRandaoMixesAtIndex(idx uint64, val [32]byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if idx >= uint64(len(b.randaoMixes)) {
		return errors.Errorf("invalid index provided %d", idx)
	}
	b.randaoMixes[idx] = val
	return nil
}

// SetLatestExecutionPayloadHeader for the beacon state. A full payload is converted to its header.
func (b *BeaconState) SetLatestExecutionPayloadHeader(val interfaces.ExecutionData) error {
	if b.version < version.Bellatrix {
		return errNotSupported("SetLatestExecutionPayloadHeader", b.version)
	}
	if val == nil || val.IsNil() {
		return errNilHeader
	}
	if val.Version() != b.version {
		return fmt.Errorf("wrong payload version %s for state version %s", version.String(val.Version()), version.String(b.version))
	}

	var header *enginev1.ExecutionPayloadHeader
	if val.IsBlinded() {
		h, ok := val.Proto().(*enginev1.ExecutionPayloadHeader)
		if !ok {
			return errors.Errorf("unexpected header type %T", val.Proto())
		}
		header = h.Copy()
	} else {
		h, err := blocks.PayloadToHeader(val)
		if err != nil {
			return err
		}
		header = h
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	b.latestExecutionPayloadHeader = header
	return nil
}
