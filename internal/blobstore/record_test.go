package blobstore

import "testing"

func TestMetaRecordRoundTrip(t *testing.T) {
	rec := EncodeMetaRecord(1024, "report.csv")

	size, name, err := DecodeMetaRecord(rec)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if size != 1024 || name != "report.csv" {
		t.Fatalf("decode = (%d, %q), want (1024, report.csv)", size, name)
	}
	if !IsMetaRecord(rec) {
		t.Fatalf("expected IsMetaRecord to accept its own encoding")
	}
}

func TestMetaRecordEmptyName(t *testing.T) {
	rec := EncodeMetaRecord(0, "")
	size, name, err := DecodeMetaRecord(rec)
	if err != nil || size != 0 || name != "" {
		t.Fatalf("decode = (%d, %q, %v), want (0, \"\", nil)", size, name, err)
	}
}

func TestIsMetaRecordRejectsArbitraryPayload(t *testing.T) {
	if IsMetaRecord([]byte("just a regular payload, not framed at all")) {
		t.Fatalf("expected arbitrary payload to not look like a meta record")
	}
	if IsMetaRecord(nil) {
		t.Fatalf("expected nil to not look like a meta record")
	}
}

func TestDecodeMetaRecordRejectsCorruptChecksum(t *testing.T) {
	rec := EncodeMetaRecord(10, "x.bin")
	rec[len(rec)-1] ^= 0xFF

	if _, _, err := DecodeMetaRecord(rec); err == nil {
		t.Fatalf("expected checksum mismatch to be rejected")
	}
	if IsMetaRecord(rec) {
		t.Fatalf("expected corrupted record to fail IsMetaRecord")
	}
}

func TestDecodeMetaRecordRejectsTruncated(t *testing.T) {
	rec := EncodeMetaRecord(10, "x.bin")
	if _, _, err := DecodeMetaRecord(rec[:metaHeaderLen]); err == nil {
		t.Fatalf("expected truncated record to be rejected")
	}
}
