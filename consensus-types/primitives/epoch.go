package primitives

// Epoch represents a single epoch.
type Epoch uint64

// FarFutureEpoch is used for fork epochs that are not scheduled.
const FarFutureEpoch = Epoch(1<<64 - 1)
