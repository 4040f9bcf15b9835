package wire

import (
	"bytes"
	"testing"
)

func TestFieldOrderAndWidth(t *testing.T) {
	w := NewWriter()
	w.WriteInt(-5)
	w.WriteBool(true)
	w.WriteFloat(1.5)
	w.WriteString("fruitbot")
	w.WriteUint64(0xDEADBEEFCAFE)

	// int32 + int32-width bool + float32 + (len + 8 bytes) + uint64
	wantLen := 4 + 4 + 4 + (4 + 8) + 8
	if len(w.Bytes()) != wantLen {
		t.Fatalf("encoded length = %d, want %d", len(w.Bytes()), wantLen)
	}

	// Booleans keep the legacy int32 wire width.
	if !bytes.Equal(w.Bytes()[4:8], []byte{1, 0, 0, 0}) {
		t.Errorf("bool encoding = %v, want little-endian int32 1", w.Bytes()[4:8])
	}

	r := NewReader(w.Bytes())
	if got := r.ReadInt(); got != -5 {
		t.Errorf("ReadInt = %d, want -5", got)
	}
	if got := r.ReadBool(); !got {
		t.Error("ReadBool = false, want true")
	}
	if got := r.ReadFloat(); got != 1.5 {
		t.Errorf("ReadFloat = %v, want 1.5", got)
	}
	if got := r.ReadString(); got != "fruitbot" {
		t.Errorf("ReadString = %q, want %q", got, "fruitbot")
	}
	if got := r.ReadUint64(); got != 0xDEADBEEFCAFE {
		t.Errorf("ReadUint64 = %#x", got)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", r.Remaining())
	}
}

func TestReadPastEndPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading past end")
		}
	}()
	r := NewReader([]byte{1, 2})
	r.ReadInt()
}
