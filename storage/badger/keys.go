package badger

import "encoding/binary"

const (
	remedyRecordPrefix = "remrec:"
	corpusMetaKey      = "corpus:meta"
)

// makeRecordKey generates the key of the record at position.
// Format: prefix + position (big-endian, so keys sort in corpus order)
func makeRecordKey(position int) []byte {
	buf := make([]byte, len(remedyRecordPrefix)+8)
	offset := copy(buf, remedyRecordPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(position))
	return buf
}

// recordPosition extracts the position from a record key.
func recordPosition(key []byte) (int, bool) {
	if len(key) != len(remedyRecordPrefix)+8 || string(key[:len(remedyRecordPrefix)]) != remedyRecordPrefix {
		return 0, false
	}
	return int(binary.BigEndian.Uint64(key[len(remedyRecordPrefix):])), true
}
