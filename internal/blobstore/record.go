package blobstore

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// A meta record is the small, checksummed record the persistence interface
// receives for a blob-backed message (spec §4.5): the authoritative size
// and the original file name, so startup recovery can rebuild the index
// without scanning the blob store. Framing follows the teacher's queue
// message records: a magic prefix, fixed-width fields, and a trailing
// CRC32 (Castagnoli) checksum over everything before it.
var metaMagic = [4]byte{'M', 'S', 'B', '1'}

const metaHeaderLen = 4 + 8 + 2 // magic + size + name length

// EncodeMetaRecord frames size and name into a self-describing byte
// record suitable for writing through the persistence interface.
func EncodeMetaRecord(size int64, name string) []byte {
	if len(name) > 0xFFFF {
		name = name[:0xFFFF]
	}
	buf := make([]byte, metaHeaderLen+len(name)+4)
	copy(buf[0:4], metaMagic[:])
	binary.BigEndian.PutUint64(buf[4:12], uint64(size))
	binary.BigEndian.PutUint16(buf[12:14], uint16(len(name)))
	copy(buf[14:14+len(name)], name)
	crc := crc32.Checksum(buf[:14+len(name)], crc32.MakeTable(crc32.Castagnoli))
	binary.BigEndian.PutUint32(buf[14+len(name):], crc)
	return buf
}

// DecodeMetaRecord is the inverse of EncodeMetaRecord. It returns an error
// if b is too short, carries the wrong magic, or fails its checksum.
func DecodeMetaRecord(b []byte) (size int64, name string, err error) {
	if len(b) < metaHeaderLen+4 {
		return 0, "", fmt.Errorf("blobstore: meta record too short (%d bytes)", len(b))
	}
	if string(b[0:4]) != string(metaMagic[:]) {
		return 0, "", fmt.Errorf("blobstore: bad meta record magic")
	}
	nameLen := int(binary.BigEndian.Uint16(b[12:14]))
	if len(b) != metaHeaderLen+nameLen+4 {
		return 0, "", fmt.Errorf("blobstore: meta record length mismatch")
	}
	want := binary.BigEndian.Uint32(b[14+nameLen:])
	got := crc32.Checksum(b[:14+nameLen], crc32.MakeTable(crc32.Castagnoli))
	if want != got {
		return 0, "", fmt.Errorf("blobstore: meta record checksum mismatch")
	}
	size = int64(binary.BigEndian.Uint64(b[4:12]))
	name = string(b[14 : 14+nameLen])
	return size, name, nil
}

// IsMetaRecord reports whether b looks like a meta record (correct magic
// and checksum), without erroring on arbitrary payload bytes that happen
// to be too short or otherwise malformed.
func IsMetaRecord(b []byte) bool {
	_, _, err := DecodeMetaRecord(b)
	return err == nil
}
