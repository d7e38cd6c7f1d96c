package eth

import (
	"encoding/json"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	fieldparams "github.com/prysmaticlabs/enginebridge/config/fieldparams"
	"github.com/prysmaticlabs/enginebridge/encoding/bytesutil"
)

// ValidatorRegistrationV1 is the builder API registration a validator publishes to
// announce its preferred fee recipient and gas limit.
type ValidatorRegistrationV1 struct {
	FeeRecipient []byte
	GasLimit     uint64
	Timestamp    uint64
	Pubkey       []byte
}

// SignedValidatorRegistrationV1 wraps a registration with the validator's signature.
type SignedValidatorRegistrationV1 struct {
	Message   *ValidatorRegistrationV1
	Signature []byte
}

type validatorRegistrationJSON struct {
	FeeRecipient hexutil.Bytes `json:"fee_recipient"`
	GasLimit     string        `json:"gas_limit"`
	Timestamp    string        `json:"timestamp"`
	Pubkey       hexutil.Bytes `json:"pubkey"`
}

type signedValidatorRegistrationJSON struct {
	Message   *ValidatorRegistrationV1 `json:"message"`
	Signature hexutil.Bytes            `json:"signature"`
}

// MarshalJSON encodes integers as quoted decimal strings.
func (r *ValidatorRegistrationV1) MarshalJSON() ([]byte, error) {
	return json.Marshal(validatorRegistrationJSON{
		FeeRecipient: r.FeeRecipient,
		GasLimit:     strconv.FormatUint(r.GasLimit, 10),
		Timestamp:    strconv.FormatUint(r.Timestamp, 10),
		Pubkey:       r.Pubkey,
	})
}

// UnmarshalJSON --
func (r *ValidatorRegistrationV1) UnmarshalJSON(enc []byte) error {
	dec := validatorRegistrationJSON{}
	if err := json.Unmarshal(enc, &dec); err != nil {
		return err
	}
	gasLimit, err := strconv.ParseUint(dec.GasLimit, 10, 64)
	if err != nil {
		return errors.Wrap(err, "could not parse gas_limit")
	}
	timestamp, err := strconv.ParseUint(dec.Timestamp, 10, 64)
	if err != nil {
		return errors.Wrap(err, "could not parse timestamp")
	}
	reg := ValidatorRegistrationV1{
		FeeRecipient: dec.FeeRecipient,
		GasLimit:     gasLimit,
		Timestamp:    timestamp,
		Pubkey:       dec.Pubkey,
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	*r = reg
	return nil
}

// Validate checks the byte lengths of the registration fields.
func (r *ValidatorRegistrationV1) Validate() error {
	if r == nil {
		return errors.New("nil validator registration")
	}
	if len(r.FeeRecipient) != fieldparams.FeeRecipientLength {
		return errors.Errorf("fee recipient has length %d, want %d", len(r.FeeRecipient), fieldparams.FeeRecipientLength)
	}
	if len(r.Pubkey) != fieldparams.BLSPubkeyLength {
		return errors.Errorf("pubkey has length %d, want %d", len(r.Pubkey), fieldparams.BLSPubkeyLength)
	}
	return nil
}

// Copy --
func (r *ValidatorRegistrationV1) Copy() *ValidatorRegistrationV1 {
	if r == nil {
		return nil
	}
	return &ValidatorRegistrationV1{
		FeeRecipient: bytesutil.SafeCopyBytes(r.FeeRecipient),
		GasLimit:     r.GasLimit,
		Timestamp:    r.Timestamp,
		Pubkey:       bytesutil.SafeCopyBytes(r.Pubkey),
	}
}

// MarshalJSON --
func (s *SignedValidatorRegistrationV1) MarshalJSON() ([]byte, error) {
	return json.Marshal(signedValidatorRegistrationJSON{
		Message:   s.Message,
		Signature: s.Signature,
	})
}

// UnmarshalJSON --
func (s *SignedValidatorRegistrationV1) UnmarshalJSON(enc []byte) error {
	dec := signedValidatorRegistrationJSON{}
	if err := json.Unmarshal(enc, &dec); err != nil {
		return err
	}
	if dec.Message == nil {
		return errors.New("missing required field 'message' for SignedValidatorRegistrationV1")
	}
	if len(dec.Signature) != fieldparams.BLSSignatureLength {
		return errors.Errorf("signature has length %d, want %d", len(dec.Signature), fieldparams.BLSSignatureLength)
	}
	*s = SignedValidatorRegistrationV1{Message: dec.Message, Signature: dec.Signature}
	return nil
}
