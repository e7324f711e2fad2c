package ledger

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/big"
)

const recordVersionV1 = 1

// EncodeRecord serializes a record for the archive. Layout is versioned,
// big-endian, with length-prefixed variable fields.
func EncodeRecord(rec *TxRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recordVersionV1)
	buf.WriteByte(byte(rec.Status))

	if err := binary.Write(&buf, binary.BigEndian, uint64(rec.ID)); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, rec.ReleaseTime); err != nil {
		return nil, err
	}

	buf.Write(rec.Params.Requester[:])
	buf.Write(rec.Params.Target[:])

	value := valueOrZero(rec.Params.Value).Bytes()
	if len(value) > 255 {
		return nil, errors.New("record value too large")
	}
	buf.WriteByte(byte(len(value)))
	buf.Write(value)

	if err := binary.Write(&buf, binary.BigEndian, rec.Params.GasLimit); err != nil {
		return nil, err
	}
	buf.Write(rec.Params.OperationType[:])
	buf.WriteByte(byte(rec.Params.ExecutionType))
	buf.Write(rec.Params.FunctionSelector[:])
	buf.Write(rec.Params.ExecutionSelector[:])

	if len(rec.Params.CallParams) > 1<<24 {
		return nil, errors.New("record call params too large")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint32(len(rec.Params.CallParams))); err != nil {
		return nil, err
	}
	buf.Write(rec.Params.CallParams)

	buf.Write(rec.Message[:])

	if len(rec.FailureReason) > 65535 {
		return nil, errors.New("record failure reason too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(rec.FailureReason))); err != nil {
		return nil, err
	}
	buf.WriteString(rec.FailureReason)

	return buf.Bytes(), nil
}

// DecodeRecord parses a record previously produced by [EncodeRecord].
func DecodeRecord(data []byte) (*TxRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != recordVersionV1 {
		return nil, errors.New("invalid record version")
	}

	status, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}

	rec := &TxRecord{Status: Status(status)}

	var id uint64
	if err := binary.Read(reader, binary.BigEndian, &id); err != nil {
		return nil, err
	}
	rec.ID = TxID(id)

	if err := binary.Read(reader, binary.BigEndian, &rec.ReleaseTime); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(reader, rec.Params.Requester[:]); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(reader, rec.Params.Target[:]); err != nil {
		return nil, err
	}

	valueLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	value := make([]byte, valueLen)
	if _, err := io.ReadFull(reader, value); err != nil {
		return nil, err
	}
	rec.Params.Value = new(big.Int).SetBytes(value)

	if err := binary.Read(reader, binary.BigEndian, &rec.Params.GasLimit); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(reader, rec.Params.OperationType[:]); err != nil {
		return nil, err
	}

	execType, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	rec.Params.ExecutionType = ExecutionType(execType)

	if _, err := io.ReadFull(reader, rec.Params.FunctionSelector[:]); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(reader, rec.Params.ExecutionSelector[:]); err != nil {
		return nil, err
	}

	var callLen uint32
	if err := binary.Read(reader, binary.BigEndian, &callLen); err != nil {
		return nil, err
	}
	if callLen > 1<<24 {
		return nil, errors.New("record call params too large")
	}
	rec.Params.CallParams = make([]byte, callLen)
	if _, err := io.ReadFull(reader, rec.Params.CallParams); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(reader, rec.Message[:]); err != nil {
		return nil, err
	}

	var reasonLen uint16
	if err := binary.Read(reader, binary.BigEndian, &reasonLen); err != nil {
		return nil, err
	}
	reason := make([]byte, reasonLen)
	if _, err := io.ReadFull(reader, reason); err != nil {
		return nil, err
	}
	rec.FailureReason = string(reason)

	return rec, nil
}
