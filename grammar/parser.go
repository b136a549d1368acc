package grammar

import (
	avro "github.com/avroforge/avro"
	"github.com/avroforge/avro/errors"
)

// Handler receives implicit action symbols as the parser pops them.
// The returned size is consumed by the parser for writer_union (the
// selected branch index) and ignored otherwise.
type Handler interface {
	Handle(s *Symbol) (int64, error)
}

// NoopHandler ignores every action. It serves validating codecs, whose
// grammars carry no actions that need outside help.
type NoopHandler struct{}

func (NoopHandler) Handle(*Symbol) (int64, error) { return 0, nil }

// Parser is the pushdown automaton driving encoders and decoders. It
// is exclusively owned by its codec and not safe for concurrent use.
type Parser struct {
	grammar Grammar
	handler Handler
	dec     avro.Decoder // base decoder for skip paths; nil in encoders
	phase   errors.Phase
	stack   []Symbol
}

// NewParser builds a parser over a compiled grammar. dec is the base
// decoder used to advance the stream over skipped writer fields; it is
// nil for encoders and validating decoders.
func NewParser(g Grammar, phase errors.Phase, dec avro.Decoder, h Handler) *Parser {
	p := &Parser{grammar: g, handler: h, dec: dec, phase: phase}
	p.Reset()
	return p
}

// Reset rewinds the parser to the start of a datum.
func (p *Parser) Reset() {
	p.stack = p.stack[:0]
	p.push(p.grammar.Main)
}

// push appends a production's symbols in storage order, leaving the
// first symbol to execute on top.
func (p *Parser) push(prod *Production) {
	p.stack = append(p.stack, *prod...)
}

func (p *Parser) pop() Symbol {
	s := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return s
}

func (p *Parser) violation(expected string, found Kind) error {
	return errors.GrammarViolation(p.phase, expected, found.String())
}

// Top returns the kind of the symbol on top of the stack.
func (p *Parser) Top() Kind {
	if len(p.stack) == 0 {
		return KindError
	}
	return p.stack[len(p.stack)-1].kind
}

// Advance pops symbols, running embedded actions, until the expected
// terminal surfaces. It returns the terminal actually matched: for a
// resolve symbol targeting the expected kind this is the writer's
// kind, telling the caller to decode with the writer's function and
// widen.
func (p *Parser) Advance(expected Kind) (Kind, error) {
	for {
		if len(p.stack) == 0 {
			// Datum boundary: the root production repeats so one
			// parser can carry a sequence of datums.
			p.push(p.grammar.Main)
		}
		s := &p.stack[len(p.stack)-1]
		switch {
		case s.kind == expected:
			p.pop()
			return expected, nil

		case s.kind == KindResolve:
			if s.to != expected {
				return 0, p.violation(expected.String(), s.to)
			}
			from := s.from
			p.pop()
			return from, nil

		case s.kind == KindIndirect:
			prod := s.prod
			p.pop()
			p.push(prod)

		case s.kind == KindRepeater:
			if s.n <= 0 {
				return 0, p.violation(expected.String(), KindRepeater)
			}
			s.n--
			prod := s.prod
			p.push(prod)

		case s.kind == KindSkipStart:
			p.pop()
			if err := p.skipTop(); err != nil {
				return 0, err
			}

		case s.kind == KindError:
			detail := s.detail
			return 0, errors.New(errors.PhaseResolve, errors.KindIncompatibleSchema).
				Detail("%s", detail).
				Build()

		case s.kind.IsImplicitAction():
			n, err := p.handler.Handle(s)
			if err != nil {
				return 0, err
			}
			kind := s.kind
			p.pop()
			if kind == KindWriterUnion {
				if err := p.SelectBranch(n); err != nil {
					return 0, err
				}
			}

		default:
			return 0, p.violation(expected.String(), s.kind)
		}
	}
}

// ProcessImplicitActions runs any actions pending on top of the stack.
// Decoders call it between container items so default brackets and
// record markers fire at the right moment.
func (p *Parser) ProcessImplicitActions() error {
	for len(p.stack) > 0 {
		s := &p.stack[len(p.stack)-1]
		if !s.kind.IsImplicitAction() {
			return nil
		}
		n, err := p.handler.Handle(s)
		if err != nil {
			return err
		}
		kind := s.kind
		p.pop()
		if kind == KindWriterUnion {
			if err := p.SelectBranch(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// AssertSize requires the next symbol to be a size check with exactly
// n, consumed before fixed reads and writes.
func (p *Parser) AssertSize(n int) error {
	if p.Top() != KindSizeCheck {
		return p.violation(KindSizeCheck.String(), p.Top())
	}
	s := p.pop()
	if s.n != int64(n) {
		return errors.New(p.phase, errors.KindGrammarViolation).
			Detail("incorrect size: expected %d, found %d", s.n, n).
			Build()
	}
	return nil
}

// AssertLessThan requires the next symbol to be a size check with an
// operand greater than n; used to bound enum ordinals.
func (p *Parser) AssertLessThan(n int64) error {
	if p.Top() != KindSizeCheck {
		return p.violation(KindSizeCheck.String(), p.Top())
	}
	s := p.pop()
	if n < 0 || n >= s.n {
		return errors.Range(p.phase, "ordinal %d out of range [0, %d)", n, s.n)
	}
	return nil
}

// SetRepeatCount arms the repeater on top of the stack with a block's
// item count.
func (p *Parser) SetRepeatCount(n int64) error {
	if p.Top() != KindRepeater {
		return p.violation(KindRepeater.String(), p.Top())
	}
	top := &p.stack[len(p.stack)-1]
	if top.n != 0 {
		return errors.New(p.phase, errors.KindGrammarViolation).
			Detail("wrong number of items: %d pending", top.n).
			Build()
	}
	top.n = n
	return nil
}

// PopRepeater removes an exhausted repeater from the stack.
func (p *Parser) PopRepeater() error {
	if p.Top() != KindRepeater {
		return p.violation(KindRepeater.String(), p.Top())
	}
	if n := p.stack[len(p.stack)-1].n; n != 0 {
		return errors.New(p.phase, errors.KindGrammarViolation).
			Detail("container ended with %d items pending", n).
			Build()
	}
	p.pop()
	return nil
}

// Pop discards the symbol on top of the stack. Codecs use it to drop a
// repeater when the underlying skip consumed a container wholesale.
func (p *Parser) Pop() error {
	if len(p.stack) == 0 {
		return errors.GrammarViolation(p.phase, "symbol", "end of grammar")
	}
	p.pop()
	return nil
}

// SelectBranch narrows the alternative on top of the stack to branch i.
func (p *Parser) SelectBranch(i int64) error {
	if p.Top() != KindAlternative {
		return p.violation(KindAlternative.String(), p.Top())
	}
	s := p.pop()
	if i < 0 || i >= int64(len(s.alts)) {
		return errors.Range(p.phase, "union branch %d out of range [0, %d)", i, len(s.alts))
	}
	p.push(s.alts[i])
	return nil
}

// AltNames returns the branch names of the alternative on top of the
// stack. Only JSON grammars carry names.
func (p *Parser) AltNames() ([]string, error) {
	if p.Top() != KindAlternative {
		return nil, p.violation(KindAlternative.String(), p.Top())
	}
	return p.stack[len(p.stack)-1].names, nil
}

// EnumAdjust maps a writer enum ordinal to the reader's ordinal.
func (p *Parser) EnumAdjust(writerOrdinal int64) (int64, error) {
	if p.Top() != KindEnumAdjust {
		return 0, p.violation(KindEnumAdjust.String(), p.Top())
	}
	s := p.pop()
	if writerOrdinal < 0 || writerOrdinal >= int64(len(s.table)) {
		return 0, errors.Range(p.phase, "enum ordinal %d out of range [0, %d)", writerOrdinal, len(s.table))
	}
	mapped := s.table[writerOrdinal]
	if mapped < 0 {
		return 0, errors.New(errors.PhaseResolve, errors.KindIncompatibleSchema).
			Detail("writer enum ordinal %d has no reader symbol", writerOrdinal).
			Build()
	}
	return int64(mapped), nil
}

// EnumLabels consumes an enum_labels symbol and returns the symbol
// names it carries. Only JSON grammars hold labels.
func (p *Parser) EnumLabels() ([]string, error) {
	if p.Top() != KindEnumLabels {
		return nil, p.violation(KindEnumLabels.String(), p.Top())
	}
	s := p.pop()
	return s.names, nil
}

// UnionAdjust consumes a union_adjust symbol, pushes the adjusted
// branch production and returns the reader branch index.
func (p *Parser) UnionAdjust() (int64, error) {
	if p.Top() != KindUnionAdjust {
		return 0, p.violation(KindUnionAdjust.String(), p.Top())
	}
	s := p.pop()
	p.push(s.prod)
	return s.n, nil
}

// SizeList consumes a size_list symbol and returns the reader field
// order it carries.
func (p *Parser) SizeList() ([]int, error) {
	if p.Top() != KindSizeList {
		return nil, p.violation(KindSizeList.String(), p.Top())
	}
	s := p.pop()
	return s.order, nil
}

// Skip consumes the symbol subtree on top of the stack, advancing d
// past the corresponding bytes without surfacing them.
func (p *Parser) Skip(d avro.Decoder) error {
	return p.drain(len(p.stack)-1, d)
}

func (p *Parser) skipTop() error {
	if p.dec == nil {
		return errors.Unsupported(p.phase, "skip without a base decoder")
	}
	return p.drain(len(p.stack)-1, p.dec)
}

// drain consumes stack symbols with d's skip operations until the
// stack is back at the target depth.
func (p *Parser) drain(target int, d avro.Decoder) error {
	for len(p.stack) > target {
		s := p.pop()
		var err error
		switch s.kind {
		case KindNull:
		case KindBool:
			_, err = d.DecodeBool()
		case KindInt:
			_, err = d.DecodeInt()
		case KindLong:
			_, err = d.DecodeLong()
		case KindFloat:
			_, err = d.DecodeFloat()
		case KindDouble:
			_, err = d.DecodeDouble()
		case KindString:
			err = d.SkipString()
		case KindBytes:
			err = d.SkipBytes()
		case KindEnum:
			_, err = d.DecodeEnum()
		case KindSizeCheck, KindArrayEnd, KindMapEnd, KindRecordStart, KindRecordEnd, KindField, KindUnionEnd:
			// No bytes on the wire.
		case KindFixed:
			sc := p.pop()
			if sc.kind != KindSizeCheck {
				return p.violation(KindSizeCheck.String(), sc.kind)
			}
			err = d.SkipFixed(int(sc.n))
		case KindUnion:
			var idx int64
			idx, err = d.DecodeUnionIndex()
			if err != nil {
				return err
			}
			err = p.SelectBranch(idx)
		case KindIndirect:
			p.push(s.prod)
		case KindArrayStart, KindMapStart:
			var n int64
			if s.kind == KindArrayStart {
				n, err = d.SkipArray()
			} else {
				n, err = d.SkipMap()
			}
			if err != nil {
				return err
			}
			if p.Top() != KindRepeater {
				return p.violation(KindRepeater.String(), p.Top())
			}
			if n == 0 {
				p.pop()
			} else {
				p.stack[len(p.stack)-1].n = n
			}
		case KindRepeater:
			count := s.n
			for count != 0 {
				base := len(p.stack)
				for i := int64(0); i < count; i++ {
					p.push(s.skip)
				}
				if err := p.drain(base, d); err != nil {
					return err
				}
				if s.isArray {
					count, err = d.ArrayNext()
				} else {
					count, err = d.MapNext()
				}
				if err != nil {
					return err
				}
			}
		default:
			return errors.Unsupported(p.phase, "cannot skip symbol "+s.kind.String())
		}
		if err != nil {
			return err
		}
	}
	return nil
}
