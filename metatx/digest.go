package metatx

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/MrEthical07/goTimelock/ledger"
)

// digestDomainV1 separates goTimelock digests from any other signed payload a
// key might also be used for.
const digestDomainV1 = "goTimelock/metatx/v1"

// Digest produces the canonical signable hash for a record. The encoding is
// deterministic: fixed field order, big-endian integers, length-prefixed
// variable fields.
func Digest(params ledger.TxParams, txID ledger.TxID, nonce uint64, deadline int64, chainID uint64) [32]byte {
	var buf bytes.Buffer

	buf.WriteString(digestDomainV1)

	writeUint64(&buf, chainID)
	writeUint64(&buf, nonce)
	writeUint64(&buf, uint64(deadline))
	writeUint64(&buf, uint64(txID))

	buf.Write(params.Requester[:])
	buf.Write(params.Target[:])

	value := params.Value
	if value == nil {
		value = new(big.Int)
	}
	valueBytes := value.Bytes()
	writeUint32(&buf, uint32(len(valueBytes)))
	buf.Write(valueBytes)

	writeUint64(&buf, params.GasLimit)
	buf.Write(params.OperationType[:])
	buf.WriteByte(byte(params.ExecutionType))
	buf.Write(params.FunctionSelector[:])
	buf.Write(params.ExecutionSelector[:])

	writeUint32(&buf, uint32(len(params.CallParams)))
	buf.Write(params.CallParams)

	var digest [32]byte
	copy(digest[:], crypto.Keccak256(buf.Bytes()))
	return digest
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}
