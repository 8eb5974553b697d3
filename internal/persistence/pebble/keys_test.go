package pebble

import (
	"bytes"
	"sort"
	"testing"

	"github.com/msg-store/msg-store/pkg/id"
)

func TestEncodeKeyRoundTrip(t *testing.T) {
	in := id.ID{Priority: 7, TimestampMs: 1234567, Sequence: 3, NodeID: 9}
	out, err := decodeKey(encodeKey(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}

func TestEncodeKeyOrderingMatchesTotalOrder(t *testing.T) {
	ids := []id.ID{
		{Priority: 1, TimestampMs: 1, NodeID: 1},
		{Priority: 5, TimestampMs: 1, NodeID: 1},
		{Priority: 5, TimestampMs: 2, NodeID: 1},
		{Priority: 5, TimestampMs: 1, Sequence: 1, NodeID: 1},
	}
	keys := make([][]byte, len(ids))
	for i, v := range ids {
		keys[i] = encodeKey(v)
	}

	sortedByKey := append([][]byte(nil), keys...)
	sort.Slice(sortedByKey, func(i, j int) bool { return bytes.Compare(sortedByKey[i], sortedByKey[j]) < 0 })

	sortedByTotalOrder := append([]id.ID(nil), ids...)
	sort.Slice(sortedByTotalOrder, func(i, j int) bool { return sortedByTotalOrder[i].Less(sortedByTotalOrder[j]) })

	for i, want := range sortedByTotalOrder {
		got, err := decodeKey(sortedByKey[i])
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != want {
			t.Fatalf("position %d: key order gives %+v, want %+v", i, got, want)
		}
	}
}

func TestDecodeKeyRejectsWrongLength(t *testing.T) {
	if _, err := decodeKey([]byte("too short")); err == nil {
		t.Fatalf("expected error for malformed key length")
	}
}
