package primitives

// ValidatorIndex in eth2.
type ValidatorIndex uint64

// PayloadID is the engine API identifier of a payload build process.
type PayloadID [8]byte
