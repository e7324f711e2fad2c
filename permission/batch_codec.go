package permission

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/google/uuid"
)

const batchVersionV1 = 1

// EncodeBatch serializes a batch into the opaque call-parameter block carried
// by a role-administration transaction.
func EncodeBatch(batch Batch) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(batchVersionV1)
	buf.Write(batch.ID[:])

	if len(batch.Entries) > 65535 {
		return nil, errors.New("batch entry count too large")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(batch.Entries))); err != nil {
		return nil, err
	}

	for _, entry := range batch.Entries {
		buf.WriteByte(byte(entry.Action))
		buf.Write(entry.Role[:])

		if len(entry.Name) > 65535 {
			return nil, errors.New("batch role name too long")
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(entry.Name))); err != nil {
			return nil, err
		}
		buf.WriteString(entry.Name)

		if err := binary.Write(&buf, binary.BigEndian, uint32(entry.MaxWallets)); err != nil {
			return nil, err
		}
		if entry.Protected {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		buf.Write(entry.Wallet[:])

		buf.Write(entry.Permission.Selector[:])
		if err := binary.Write(&buf, binary.BigEndian, entry.Permission.Granted.Raw()); err != nil {
			return nil, err
		}
		if len(entry.Permission.HandlerFor) > 255 {
			return nil, errors.New("batch handler-for list too long")
		}
		buf.WriteByte(byte(len(entry.Permission.HandlerFor)))
		for _, h := range entry.Permission.HandlerFor {
			buf.Write(h[:])
		}
	}

	return buf.Bytes(), nil
}

// DecodeBatch parses a batch previously produced by [EncodeBatch].
func DecodeBatch(data []byte) (Batch, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return Batch{}, err
	}
	if version != batchVersionV1 {
		return Batch{}, errors.New("invalid batch version")
	}

	var batch Batch
	var id uuid.UUID
	if _, err := io.ReadFull(reader, id[:]); err != nil {
		return Batch{}, err
	}
	batch.ID = id

	var count uint16
	if err := binary.Read(reader, binary.BigEndian, &count); err != nil {
		return Batch{}, err
	}

	batch.Entries = make([]BatchEntry, 0, count)
	for i := 0; i < int(count); i++ {
		var entry BatchEntry

		action, err := reader.ReadByte()
		if err != nil {
			return Batch{}, err
		}
		entry.Action = BatchAction(action)

		if _, err := io.ReadFull(reader, entry.Role[:]); err != nil {
			return Batch{}, err
		}

		var nameLen uint16
		if err := binary.Read(reader, binary.BigEndian, &nameLen); err != nil {
			return Batch{}, err
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(reader, name); err != nil {
			return Batch{}, err
		}
		entry.Name = string(name)

		var maxWallets uint32
		if err := binary.Read(reader, binary.BigEndian, &maxWallets); err != nil {
			return Batch{}, err
		}
		entry.MaxWallets = int(maxWallets)

		protected, err := reader.ReadByte()
		if err != nil {
			return Batch{}, err
		}
		entry.Protected = protected == 1

		if _, err := io.ReadFull(reader, entry.Wallet[:]); err != nil {
			return Batch{}, err
		}

		if _, err := io.ReadFull(reader, entry.Permission.Selector[:]); err != nil {
			return Batch{}, err
		}
		var granted uint16
		if err := binary.Read(reader, binary.BigEndian, &granted); err != nil {
			return Batch{}, err
		}
		entry.Permission.Granted = Mask16(granted)

		handlerCount, err := reader.ReadByte()
		if err != nil {
			return Batch{}, err
		}
		if handlerCount > 0 {
			entry.Permission.HandlerFor = make([]Selector, handlerCount)
			for j := 0; j < int(handlerCount); j++ {
				if _, err := io.ReadFull(reader, entry.Permission.HandlerFor[j][:]); err != nil {
					return Batch{}, err
				}
			}
		}

		batch.Entries = append(batch.Entries, entry)
	}

	if reader.Len() != 0 {
		return Batch{}, errors.New("trailing bytes after batch payload")
	}
	return batch, nil
}
