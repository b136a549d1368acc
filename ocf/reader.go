package ocf

import (
	"bytes"
	stderrors "errors"
	"io"

	"go.uber.org/zap"

	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/codec"
	"github.com/avroforge/avro/errors"
	"github.com/avroforge/avro/generic"
	"github.com/avroforge/avro/internal/binary"
	"github.com/avroforge/avro/schema"
)

// ReaderOption configures a container file reader.
type ReaderOption func(*Reader)

// WithReaderSchema resolves the file's writer schema against s; Next
// then returns datums of s.
func WithReaderSchema(s *schema.Node) ReaderOption {
	return func(r *Reader) { r.readerSchema = s }
}

// Reader iterates the datums of an Avro object container file.
type Reader struct {
	br           *binary.Reader
	writerSchema *schema.Node
	readerSchema *schema.Node
	meta         map[string][]byte
	decompressor Codec
	syncMarker   [16]byte
	log          *zap.Logger

	dec       avro.Decoder
	datum     *schema.Node // schema of returned datums
	remaining int64        // datums left in the open block
}

// NewReader parses the container header of r.
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	fr := &Reader{
		br:   binary.NewReader(avro.NewReaderInput(r, 0)),
		meta: make(map[string][]byte),
		log:  Logger(),
	}
	for _, opt := range opts {
		opt(fr)
	}
	if err := fr.readHeader(); err != nil {
		return nil, err
	}
	return fr, nil
}

func (r *Reader) readHeader() error {
	head, err := r.br.ReadRaw(len(magic))
	if err != nil {
		return err
	}
	if !bytes.Equal(head, magic) {
		return errors.InvalidData(errors.PhaseContainer, nil, "bad magic %x", head)
	}

	for {
		n, err := r.br.ReadLong()
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		if n < 0 {
			// Size-hinted metadata block: drop the hint.
			if _, err := r.br.ReadLong(); err != nil {
				return err
			}
			n = -n
		}
		for i := int64(0); i < n; i++ {
			key, err := r.readBytes()
			if err != nil {
				return err
			}
			value, err := r.readBytes()
			if err != nil {
				return err
			}
			r.meta[string(key)] = value
		}
	}
	if err := r.br.ReadRawInto(r.syncMarker[:]); err != nil {
		return err
	}

	schemaJSON, ok := r.meta[metaSchema]
	if !ok {
		return errors.InvalidData(errors.PhaseContainer, nil, "missing %s metadata", metaSchema)
	}
	r.writerSchema, err = schema.ParseBytes(schemaJSON)
	if err != nil {
		return err
	}
	r.decompressor, err = codecByName(CodecName(r.meta[metaCodec]))
	if err != nil {
		return err
	}

	if r.readerSchema != nil {
		r.datum = r.readerSchema
		r.dec, err = codec.NewResolvingDecoder(r.writerSchema, r.readerSchema, codec.NewBinaryDecoder())
	} else {
		r.datum = r.writerSchema
		r.dec, err = codec.NewValidatingDecoder(r.writerSchema, codec.NewBinaryDecoder())
	}
	if err != nil {
		return err
	}
	r.log.Debug("container header read",
		zap.String("codec", string(r.decompressor.Name())),
		zap.Bool("resolving", r.readerSchema != nil))
	return nil
}

func (r *Reader) readBytes() ([]byte, error) {
	n, err := r.br.ReadLong()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.InvalidData(errors.PhaseContainer, nil, "negative length %d", n)
	}
	return r.br.ReadRaw(int(n))
}

// Schema returns the file's writer schema.
func (r *Reader) Schema() *schema.Node { return r.writerSchema }

// Metadata returns the header metadata entries.
func (r *Reader) Metadata() map[string][]byte { return r.meta }

// Next returns the next datum, or io.EOF after the last block.
func (r *Reader) Next() (*generic.Datum, error) {
	for r.remaining == 0 {
		if err := r.loadBlock(); err != nil {
			return nil, err
		}
	}
	r.remaining--
	return generic.Read(r.dec, r.datum)
}

func (r *Reader) loadBlock() error {
	count, err := r.br.ReadLong()
	if err != nil {
		// A clean end of stream at a block boundary ends the file.
		if stderrors.Is(err, io.EOF) {
			return io.EOF
		}
		return err
	}
	if count <= 0 {
		return errors.InvalidData(errors.PhaseContainer, nil, "invalid block count %d", count)
	}
	stored, err := r.readBytes()
	if err != nil {
		return err
	}
	var marker [16]byte
	if err := r.br.ReadRawInto(marker[:]); err != nil {
		return err
	}
	if marker != r.syncMarker {
		return errors.InvalidData(errors.PhaseContainer, nil, "sync marker mismatch")
	}
	data, err := r.decompressor.Decompress(stored)
	if err != nil {
		return err
	}
	r.dec.Init(avro.NewMemoryInput(data, 0))
	r.remaining = count
	r.log.Debug("block loaded",
		zap.Int64("count", count),
		zap.Int("raw_bytes", len(data)),
		zap.Int("stored_bytes", len(stored)))
	return nil
}
