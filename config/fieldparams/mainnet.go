package field_params

const (
	Preset                   = "mainnet"
	RootLength               = 32      // RootLength defines the byte length of a Merkle root.
	BLSSignatureLength       = 96      // BLSSignatureLength defines the byte length of a BLSSignature.
	BLSPubkeyLength          = 48      // BLSPubkeyLength defines the byte length of a BLS public key.
	FeeRecipientLength       = 20      // FeeRecipientLength defines the byte length of a fee recipient.
	LogsBloomLength          = 256     // LogsBloomLength defines the byte length of a logs bloom.
	MaxExtraDataBytes        = 32      // MaxExtraDataBytes defines the maximum byte length of the payload extra data field.
	RandaoMixesLength        = 65536   // EPOCHS_PER_HISTORICAL_VECTOR
	MaxWithdrawalsPerPayload = 16      // MaxWithdrawalsPerPayload defines the maximum number of withdrawals that can be included in a payload.
	MaxTxsPerPayloadLength   = 1048576 // MaxTxsPerPayloadLength defines the maximum number of transactions that can be included in a payload.
	PayloadIDLength          = 8       // PayloadIDLength defines the byte length of an engine API payload identifier.
)
