package ocf

import (
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/codec"
	"github.com/avroforge/avro/errors"
	"github.com/avroforge/avro/generic"
	"github.com/avroforge/avro/internal/binary"
	"github.com/avroforge/avro/schema"
)

var magic = []byte{'O', 'b', 'j', 1}

const (
	metaSchema = "avro.schema"
	metaCodec  = "avro.codec"

	defaultSyncInterval = 16 * 1024
)

// WriterOption configures a container file writer.
type WriterOption func(*Writer)

// WithCodec selects the block compression codec.
func WithCodec(name CodecName) WriterOption {
	return func(w *Writer) { w.codecName = name }
}

// WithSyncInterval sets the approximate uncompressed block size at
// which blocks are cut.
func WithSyncInterval(bytes int) WriterOption {
	return func(w *Writer) {
		if bytes > 0 {
			w.syncInterval = bytes
		}
	}
}

// WithMetadata adds a user metadata entry. Keys beginning "avro." are
// reserved.
func WithMetadata(key string, value []byte) WriterOption {
	return func(w *Writer) { w.userMeta[key] = value }
}

// Writer appends datums to an Avro object container file.
type Writer struct {
	schema       *schema.Node
	codecName    CodecName
	compressor   Codec
	syncInterval int
	syncMarker   [16]byte
	userMeta     map[string][]byte
	log          *zap.Logger

	w        *binary.Writer
	out      *avro.FileOutput
	blockBuf *avro.MemoryOutput
	enc      *codec.ValidatingEncoder
	count    int64 // datums in the open block
	closed   bool
}

// NewWriter starts a container file on w and writes the header. The
// sync marker is drawn from a fresh UUID.
func NewWriter(w io.Writer, s *schema.Node, opts ...WriterOption) (*Writer, error) {
	out := avro.NewWriterOutput(w, 0)
	fw := &Writer{
		schema:       s,
		codecName:    CodecNull,
		syncInterval: defaultSyncInterval,
		syncMarker:   [16]byte(uuid.New()),
		userMeta:     make(map[string][]byte),
		log:          Logger(),
		w:            binary.NewWriter(out),
		out:          out,
	}
	for _, opt := range opts {
		opt(fw)
	}
	compressor, err := codecByName(fw.codecName)
	if err != nil {
		return nil, err
	}
	fw.compressor = compressor

	fw.blockBuf = avro.NewMemoryOutput(0)
	enc, err := codec.NewValidatingEncoder(s, codec.NewBinaryEncoder())
	if err != nil {
		return nil, err
	}
	fw.enc = enc

	if err := fw.writeHeader(); err != nil {
		return nil, err
	}
	return fw, nil
}

func (w *Writer) writeHeader() error {
	if err := w.w.WriteRaw(magic); err != nil {
		return err
	}
	meta := map[string][]byte{
		metaSchema: []byte(schema.Canonical(w.schema)),
		metaCodec:  []byte(w.codecName),
	}
	for k, v := range w.userMeta {
		meta[k] = v
	}
	if err := w.w.WriteLong(int64(len(meta))); err != nil {
		return err
	}
	for k, v := range meta {
		if err := w.writeBytes([]byte(k)); err != nil {
			return err
		}
		if err := w.writeBytes(v); err != nil {
			return err
		}
	}
	if err := w.w.WriteLong(0); err != nil {
		return err
	}
	if err := w.w.WriteRaw(w.syncMarker[:]); err != nil {
		return err
	}
	w.log.Debug("container header written",
		zap.String("codec", string(w.codecName)),
		zap.Int("sync_interval", w.syncInterval))
	return nil
}

func (w *Writer) writeBytes(b []byte) error {
	if err := w.w.WriteLong(int64(len(b))); err != nil {
		return err
	}
	return w.w.WriteRaw(b)
}

// Append encodes one datum into the open block, cutting a block once
// the sync interval is passed.
func (w *Writer) Append(d *generic.Datum) error {
	if w.closed {
		return errors.InvalidData(errors.PhaseContainer, nil, "append to closed writer")
	}
	w.enc.Init(w.blockBuf)
	if err := generic.Write(w.enc, d); err != nil {
		return err
	}
	if err := w.enc.Flush(); err != nil {
		return err
	}
	w.count++
	if w.blockBuf.ByteCount() >= int64(w.syncInterval) {
		return w.flushBlock()
	}
	return nil
}

func (w *Writer) flushBlock() error {
	if w.count == 0 {
		return nil
	}
	data := avro.Snapshot(w.blockBuf)
	compressed, err := w.compressor.Compress(data)
	if err != nil {
		return err
	}
	if err := w.w.WriteLong(w.count); err != nil {
		return err
	}
	if err := w.writeBytes(compressed); err != nil {
		return err
	}
	if err := w.w.WriteRaw(w.syncMarker[:]); err != nil {
		return err
	}
	w.log.Debug("block flushed",
		zap.Int64("count", w.count),
		zap.Int("raw_bytes", len(data)),
		zap.Int("stored_bytes", len(compressed)))
	w.count = 0
	w.blockBuf = avro.NewMemoryOutput(0)
	return nil
}

// Sync cuts the open block regardless of size.
func (w *Writer) Sync() error {
	if err := w.flushBlock(); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the final block and the underlying stream. It does not
// close the caller's io.Writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.flushBlock(); err != nil {
		return err
	}
	return w.w.Flush()
}
