package avro

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemoryOutputRoundTrip(t *testing.T) {
	out := NewMemoryOutput(4)
	payload := []byte("hello, container world")

	remaining := payload
	for len(remaining) > 0 {
		chunk, err := out.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		n := copy(chunk, remaining)
		out.Backup(len(chunk) - n)
		remaining = remaining[n:]
	}

	if got := out.ByteCount(); got != int64(len(payload)) {
		t.Fatalf("ByteCount = %d, want %d", got, len(payload))
	}
	if got := Snapshot(out); !bytes.Equal(got, payload) {
		t.Fatalf("Snapshot = %q, want %q", got, payload)
	}
}

func TestMemoryOutputResumeAfterBackup(t *testing.T) {
	out := NewMemoryOutput(8)
	chunk, _ := out.Next()
	chunk[0] = 'a'
	out.Backup(len(chunk) - 1)

	chunk, _ = out.Next()
	chunk[0] = 'b'
	out.Backup(len(chunk) - 1)

	if got := string(Snapshot(out)); got != "ab" {
		t.Fatalf("Snapshot = %q, want %q", got, "ab")
	}
}

func TestMemoryInputChunking(t *testing.T) {
	data := []byte("0123456789")
	in := NewMemoryInput(data, 3)

	var got []byte
	for {
		chunk, ok := in.Next()
		if !ok {
			break
		}
		got = append(got, chunk...)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("reassembled %q, want %q", got, data)
	}
	if in.ByteCount() != int64(len(data)) {
		t.Fatalf("ByteCount = %d, want %d", in.ByteCount(), len(data))
	}
}

func TestMemoryInputBackup(t *testing.T) {
	in := NewMemoryInput([]byte("abcdef"), 0)
	chunk, ok := in.Next()
	if !ok || len(chunk) != 6 {
		t.Fatalf("Next = %q, %v", chunk, ok)
	}
	in.Backup(2)
	chunk, ok = in.Next()
	if !ok || string(chunk) != "ef" {
		t.Fatalf("after Backup, Next = %q, %v", chunk, ok)
	}
}

func TestMemoryInputSkip(t *testing.T) {
	in := NewMemoryInput([]byte("abcdef"), 0)
	if err := in.Skip(4); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	chunk, ok := in.Next()
	if !ok || string(chunk) != "ef" {
		t.Fatalf("after Skip, Next = %q, %v", chunk, ok)
	}
	if err := in.Skip(10); err == nil {
		t.Fatal("Skip past end should fail")
	}
}

func TestReaderInput(t *testing.T) {
	in := NewReaderInput(strings.NewReader("stream me please"), 5)
	var got []byte
	for {
		chunk, ok := in.Next()
		if !ok {
			break
		}
		got = append(got, chunk...)
	}
	if string(got) != "stream me please" {
		t.Fatalf("reassembled %q", got)
	}
}

func TestReaderInputBackupRedelivers(t *testing.T) {
	in := NewReaderInput(strings.NewReader("abcdef"), 16)
	chunk, _ := in.Next()
	if string(chunk) != "abcdef" {
		t.Fatalf("Next = %q", chunk)
	}
	in.Backup(3)
	if in.ByteCount() != 3 {
		t.Fatalf("ByteCount = %d, want 3", in.ByteCount())
	}
	chunk, ok := in.Next()
	if !ok || string(chunk) != "def" {
		t.Fatalf("re-delivered %q, %v", chunk, ok)
	}
}

func TestReaderInputSkip(t *testing.T) {
	in := NewReaderInput(strings.NewReader("0123456789"), 4)
	chunk, _ := in.Next() // "0123"
	_ = chunk
	in.Backup(2)
	if err := in.Skip(5); err != nil { // "23456"
		t.Fatalf("Skip: %v", err)
	}
	chunk, ok := in.Next()
	if !ok || string(chunk) != "789" {
		t.Fatalf("after Skip, Next = %q, %v", chunk, ok)
	}
}

func TestWriterOutput(t *testing.T) {
	var sink bytes.Buffer
	out := NewWriterOutput(&sink, 4)
	msg := []byte("write through chunks")
	remaining := msg
	for len(remaining) > 0 {
		chunk, err := out.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		n := copy(chunk, remaining)
		out.Backup(len(chunk) - n)
		remaining = remaining[n:]
	}
	if err := out.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if sink.String() != string(msg) {
		t.Fatalf("sink = %q, want %q", sink.String(), msg)
	}
	if out.ByteCount() != int64(len(msg)) {
		t.Fatalf("ByteCount = %d, want %d", out.ByteCount(), len(msg))
	}
}
