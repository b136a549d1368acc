package avro

import (
	"io"
	"os"

	"github.com/avroforge/avro/errors"
)

func errShortSkip(want, have int64) error {
	return errors.New(errors.PhaseStream, errors.KindIO).
		Detail("skip past end of stream: want %d, have %d", want, have).
		Build()
}

// FileInput is a buffered InputStream over an io.Reader, typically a
// file. Skip uses io.Seeker when the source provides one.
type FileInput struct {
	src      io.Reader
	buf      []byte
	start    int // next unread byte within buf[:end]
	end      int // filled bytes in buf
	consumed int64
	closer   io.Closer
}

// NewFileInput opens path for reading. bufferSize of 0 selects a
// reasonable default.
func NewFileInput(path string, bufferSize int) (*FileInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseStream, err, "open input")
	}
	s := NewReaderInput(f, bufferSize)
	s.closer = f
	return s, nil
}

// NewReaderInput wraps an arbitrary io.Reader as an InputStream.
func NewReaderInput(r io.Reader, bufferSize int) *FileInput {
	if bufferSize <= 0 {
		bufferSize = defaultChunkSize
	}
	return &FileInput{src: r, buf: make([]byte, bufferSize)}
}

func (s *FileInput) Next() ([]byte, bool) {
	if s.start < s.end {
		// Re-deliver bytes held back by Backup.
		out := s.buf[s.start:s.end]
		s.consumed += int64(len(out))
		s.start = s.end
		return out, true
	}
	n, err := s.src.Read(s.buf)
	for n == 0 && err == nil {
		n, err = s.src.Read(s.buf)
	}
	if n == 0 {
		return nil, false
	}
	s.start, s.end = n, n
	s.consumed += int64(n)
	return s.buf[:n], true
}

func (s *FileInput) Backup(n int) {
	if n > s.start {
		n = s.start
	}
	s.start -= n
	s.consumed -= int64(n)
}

func (s *FileInput) Skip(n int64) error {
	if buffered := int64(s.end - s.start); buffered > 0 {
		if n <= buffered {
			s.start += int(n)
			s.consumed += n
			return nil
		}
		s.start = s.end
		s.consumed += buffered
		n -= buffered
	}
	if seeker, ok := s.src.(io.Seeker); ok {
		if _, err := seeker.Seek(n, io.SeekCurrent); err != nil {
			return errors.IO(errors.PhaseStream, err, "seek")
		}
		s.consumed += n
		return nil
	}
	skipped, err := io.CopyN(io.Discard, s.src, n)
	s.consumed += skipped
	if err != nil {
		if err == io.EOF {
			return errShortSkip(n, skipped)
		}
		return errors.IO(errors.PhaseStream, err, "skip")
	}
	return nil
}

func (s *FileInput) ByteCount() int64 { return s.consumed }

// Close releases the underlying file, when the stream owns one.
func (s *FileInput) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// FileOutput is a buffered OutputStream over an io.Writer.
type FileOutput struct {
	dst     io.Writer
	buf     []byte
	used    int
	written int64
	closer  io.Closer
}

// NewFileOutput creates (truncating) path for writing. bufferSize of 0
// selects a reasonable default.
func NewFileOutput(path string, bufferSize int) (*FileOutput, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseStream, err, "create output")
	}
	s := NewWriterOutput(f, bufferSize)
	s.closer = f
	return s, nil
}

// NewWriterOutput wraps an arbitrary io.Writer as an OutputStream.
func NewWriterOutput(w io.Writer, bufferSize int) *FileOutput {
	if bufferSize <= 0 {
		bufferSize = defaultChunkSize
	}
	return &FileOutput{dst: w, buf: make([]byte, bufferSize)}
}

func (s *FileOutput) Next() ([]byte, error) {
	if s.used == len(s.buf) {
		if err := s.Flush(); err != nil {
			return nil, err
		}
	}
	out := s.buf[s.used:]
	s.written += int64(len(out))
	s.used = len(s.buf)
	return out, nil
}

func (s *FileOutput) Backup(n int) {
	if n > s.used {
		n = s.used
	}
	s.used -= n
	s.written -= int64(n)
}

func (s *FileOutput) ByteCount() int64 { return s.written }

func (s *FileOutput) Flush() error {
	if s.used > 0 {
		if _, err := s.dst.Write(s.buf[:s.used]); err != nil {
			return errors.IO(errors.PhaseStream, err, "write")
		}
		s.used = 0
	}
	return nil
}

// Close flushes and releases the underlying file, when the stream owns
// one.
func (s *FileOutput) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
