package checksum

import (
	"bytes"
	"testing"
)

func TestFingerprintExcluding(t *testing.T) {
	data := []byte("0123456789abcdefghij")

	base, err := FingerprintExcluding(bytes.NewReader(data), 8, 4)
	if err != nil {
		t.Fatal(err)
	}

	// Same bytes outside the excluded region hash equal.
	want := append(append([]byte{}, data[:8]...), data[12:]...)
	if base != Fingerprint(want) {
		t.Errorf("FingerprintExcluding != Fingerprint of the remaining bytes")
	}

	t.Run("inside_change_ignored", func(t *testing.T) {
		mod := bytes.Clone(data)
		copy(mod[8:12], "WXYZ")
		got, err := FingerprintExcluding(bytes.NewReader(mod), 8, 4)
		if err != nil {
			t.Fatal(err)
		}
		if got != base {
			t.Errorf("change inside region altered fingerprint")
		}
	})

	for _, pos := range []int{0, 7, 12, 19} {
		mod := bytes.Clone(data)
		mod[pos] ^= 0x01
		got, err := FingerprintExcluding(bytes.NewReader(mod), 8, 4)
		if err != nil {
			t.Fatal(err)
		}
		if got == base {
			t.Errorf("change at %d outside region not detected", pos)
		}
	}
}

func TestFingerprintExcludingEdges(t *testing.T) {
	data := []byte("abcdefgh")

	head, err := FingerprintExcluding(bytes.NewReader(data), 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	if head != Fingerprint(data[4:]) {
		t.Errorf("excluding head: mismatch")
	}

	tail, err := FingerprintExcluding(bytes.NewReader(data), 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if tail != Fingerprint(data[:4]) {
		t.Errorf("excluding tail: mismatch")
	}

	if _, err := FingerprintExcluding(bytes.NewReader(data), -1, 4); err == nil {
		t.Errorf("negative start accepted")
	}
}
