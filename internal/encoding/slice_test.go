package encoding

import (
	"bytes"
	"testing"
)

func TestSlice_SequentialReads(t *testing.T) {
	var buf []byte
	buf = append(buf, 7)
	buf = AppendFixed32(buf, 0xCAFEBABE)
	buf = AppendFixed64(buf, 0x1122334455667788)
	buf = AppendVarint64(buf, 1<<40)
	buf = append(buf, "tail"...)

	s := NewSlice(buf)
	if s.Remaining() != len(buf) {
		t.Fatalf("Remaining = %d, want %d", s.Remaining(), len(buf))
	}

	b, ok := s.GetByte()
	if !ok || b != 7 {
		t.Fatalf("GetByte = %d, %v", b, ok)
	}
	v32, ok := s.GetFixed32()
	if !ok || v32 != 0xCAFEBABE {
		t.Fatalf("GetFixed32 = 0x%x, %v", v32, ok)
	}
	v64, ok := s.GetFixed64()
	if !ok || v64 != 0x1122334455667788 {
		t.Fatalf("GetFixed64 = 0x%x, %v", v64, ok)
	}
	vv, ok := s.GetVarint64()
	if !ok || vv != 1<<40 {
		t.Fatalf("GetVarint64 = %d, %v", vv, ok)
	}
	if !bytes.Equal(s.Data(), []byte("tail")) {
		t.Fatalf("Data = %q, want %q", s.Data(), "tail")
	}
	tail, ok := s.GetBytes(4)
	if !ok || string(tail) != "tail" {
		t.Fatalf("GetBytes = %q, %v", tail, ok)
	}
	if s.Remaining() != 0 {
		t.Errorf("Remaining = %d after consuming everything", s.Remaining())
	}
}

func TestSlice_ShortReads(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(s *Slice) bool
	}{
		{"byte", nil, func(s *Slice) bool { _, ok := s.GetByte(); return ok }},
		{"fixed32", []byte{1, 2, 3}, func(s *Slice) bool { _, ok := s.GetFixed32(); return ok }},
		{"fixed64", []byte{1, 2, 3, 4, 5, 6, 7}, func(s *Slice) bool { _, ok := s.GetFixed64(); return ok }},
		{"varint", []byte{0x80}, func(s *Slice) bool { _, ok := s.GetVarint64(); return ok }},
		{"bytes", []byte{1, 2}, func(s *Slice) bool { _, ok := s.GetBytes(3); return ok }},
		{"negative_bytes", []byte{1, 2}, func(s *Slice) bool { _, ok := s.GetBytes(-1); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlice(tt.data)
			if tt.read(s) {
				t.Fatal("read succeeded on short input")
			}
			if s.Remaining() != len(tt.data) {
				t.Errorf("failed read advanced the cursor: Remaining = %d", s.Remaining())
			}
		})
	}
}
