package metatx

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Sign fills the envelope's signature with a secp256k1 signature of its
// canonical digest. This is the off-chain signer side of the meta-transaction
// path; the broadcaster submits the signed envelope separately.
func Sign(mt *MetaTransaction, key *ecdsa.PrivateKey) error {
	digest := Digest(mt.Params, mt.TxID, mt.Nonce, mt.Deadline, mt.ChainID)
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return fmt.Errorf("sign meta-transaction: %w", err)
	}
	copy(mt.Signature[:], sig)
	return nil
}

// SignerOf returns the address a private key signs as.
func SignerOf(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}
