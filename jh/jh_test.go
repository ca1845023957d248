package jh

import (
	"encoding/hex"
	"math/rand"
	"testing"
)

func TestNew256EmptyString(t *testing.T) {
	h := New256()
	got := hex.EncodeToString(h.Sum(nil))
	want := "46e64619c18bb0a92a5e87185a47eef83ca747b8fcc8e1412921357e326df434"
	if got != want {
		t.Errorf("JH-256(\"\") = %s, want %s", got, want)
	}
}

func TestWriteChunking(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 500)
	rng.Read(data)

	one := New256()
	one.Write(data)
	want := one.Sum(nil)

	for _, chunk := range []int{1, 7, 63, 64, 65, 200} {
		h := New256()
		for i := 0; i < len(data); i += chunk {
			end := i + chunk
			if end > len(data) {
				end = len(data)
			}
			h.Write(data[i:end])
		}
		if got := h.Sum(nil); string(got) != string(want) {
			t.Errorf("chunk size %d: digest differs from one-shot write", chunk)
		}
	}
}

func TestSumDoesNotConsume(t *testing.T) {
	h := New256()
	h.Write([]byte("partial"))
	a := h.Sum(nil)
	b := h.Sum(nil)
	if string(a) != string(b) {
		t.Error("Sum mutated the hash state")
	}
	h.Write([]byte(" more"))
	c := h.Sum(nil)
	if string(a) == string(c) {
		t.Error("digest ignores data written after Sum")
	}
}

func TestInterface(t *testing.T) {
	h := New256()
	if h.Size() != Size || h.BlockSize() != BlockSize {
		t.Errorf("Size() = %d, BlockSize() = %d", h.Size(), h.BlockSize())
	}
}
