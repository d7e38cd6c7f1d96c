package kv

// The schema will define how to store and retrieve data from the db.
// Blocks are stored blinded under their root. Validator scoped data is keyed by the
// big endian encoding of the validator index.
var (
	blocksBucket               = []byte("blocks")
	feeRecipientBucket         = []byte("fee-recipient")
	registrationBucket         = []byte("registration")
	chainMetadataBucket        = []byte("chain-metadata")
	databaseSchemaVersionKey   = []byte("schema-version")
	currentDatabaseSchemaValue = []byte{1}
)
