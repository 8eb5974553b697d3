package pebble

import (
	"encoding/binary"
	"fmt"

	"github.com/msg-store/msg-store/pkg/id"
)

// keyLen is the fixed width of an encoded identifier key: inverted
// priority, timestamp, sequence, node id.
const keyLen = 4 + 8 + 4 + 2

// encodeKey renders identifier into a fixed-width, byte-sortable key
// whose ascending lexicographic order matches the store's total order
// (priority desc, timestamp asc, sequence asc, node_id asc). Priority is
// bit-inverted so a lexicographically smaller key means a numerically
// larger priority, following the teacher's inverted-priority indexing
// scheme in its work queue (internal/workqueue/keys.go priorityIndexKey).
func encodeKey(identifier id.ID) []byte {
	buf := make([]byte, keyLen)
	binary.BigEndian.PutUint32(buf[0:4], ^identifier.Priority)
	binary.BigEndian.PutUint64(buf[4:12], uint64(identifier.TimestampMs))
	binary.BigEndian.PutUint32(buf[12:16], identifier.Sequence)
	binary.BigEndian.PutUint16(buf[16:18], identifier.NodeID)
	return buf
}

// decodeKey is the inverse of encodeKey.
func decodeKey(key []byte) (id.ID, error) {
	if len(key) != keyLen {
		return id.ID{}, fmt.Errorf("pebble: malformed key length %d, want %d", len(key), keyLen)
	}
	return id.ID{
		Priority:    ^binary.BigEndian.Uint32(key[0:4]),
		TimestampMs: int64(binary.BigEndian.Uint64(key[4:12])),
		Sequence:    binary.BigEndian.Uint32(key[12:16]),
		NodeID:      binary.BigEndian.Uint16(key[16:18]),
	}, nil
}
