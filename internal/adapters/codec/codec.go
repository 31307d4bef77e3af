// Package codec implements the binary format of cache artifacts.
//
// An artifact is the magic "CBLR", the format version and the artifact kind as varints, a
// protobuf-wire encoded body, and an xxhash64 checksum of the body. Every string is written in
// virtual form and read back in real form.
package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"google.golang.org/protobuf/encoding/protowire"

	"go.trai.ch/cachebridge/internal/core/domain"
	"go.trai.ch/cachebridge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Version is the current artifact format version.
const Version = 1

// Kind identifies what an artifact holds.
type Kind uint64

const (
	// KindLabelResult marks a label result artifact.
	KindLabelResult Kind = 1
	// KindProject marks a project instance artifact.
	KindProject Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindLabelResult:
		return "label-result"
	case KindProject:
		return "project"
	default:
		return "unknown"
	}
}

var magic = []byte("CBLR")

const checksumSize = 8

// Codec encodes and decodes artifacts, virtualizing paths through a PathMapper.
// It is safe for concurrent use.
type Codec struct {
	toVirtual func(string) string
	interner  *Interner
}

// New creates a Codec bound to the path mapper of the current invocation.
func New(mapper ports.PathMapper) *Codec {
	if mapper == nil {
		return &Codec{toVirtual: identity, interner: NewInterner(identity)}
	}
	return &Codec{toVirtual: mapper.ToVirtual, interner: NewInterner(mapper.ToReal)}
}

// Interner returns the string table shared by every decode of this codec.
func (c *Codec) Interner() *Interner {
	return c.interner
}

// EncodeLabelResult serializes a label result.
func (c *Codec) EncodeLabelResult(r *domain.LabelResult) []byte {
	e := c.newEncoder()
	e.labelResult(r)
	return seal(KindLabelResult, e.buf)
}

// DecodeLabelResult deserializes a label result.
func (c *Codec) DecodeLabelResult(data []byte) (*domain.LabelResult, error) {
	body, err := open(KindLabelResult, data)
	if err != nil {
		return nil, err
	}
	d := &decoder{interner: c.interner}
	return d.labelResult(body)
}

// EncodeProject serializes a project instance.
func (c *Codec) EncodeProject(p *domain.ProjectInstance) []byte {
	e := c.newEncoder()
	e.project(p)
	return seal(KindProject, e.buf)
}

// DecodeProject deserializes a project instance.
func (c *Codec) DecodeProject(data []byte) (*domain.ProjectInstance, error) {
	body, err := open(KindProject, data)
	if err != nil {
		return nil, err
	}
	d := &decoder{interner: c.interner}
	return d.project(body)
}

func (c *Codec) newEncoder() *encoder {
	return &encoder{toVirtual: c.toVirtual, buf: make([]byte, 0, 4096)}
}

// seal frames an encoded body with the header and the checksum trailer.
func seal(kind Kind, body []byte) []byte {
	out := make([]byte, 0, len(magic)+2*binary.MaxVarintLen64+len(body)+checksumSize)
	out = append(out, magic...)
	out = protowire.AppendVarint(out, Version)
	out = protowire.AppendVarint(out, uint64(kind))
	out = append(out, body...)
	return protowire.AppendFixed64(out, xxhash.Sum64(body))
}

// open validates the frame of an artifact and returns its body.
func open(kind Kind, data []byte) ([]byte, error) {
	if len(data) < len(magic) || !bytes.Equal(data[:len(magic)], magic) {
		return nil, zerr.With(zerr.Wrap(domain.ErrIncompatibleArtifact, "unrecognized artifact header"),
			"expected_format", string(magic))
	}
	rest := data[len(magic):]

	version, n := protowire.ConsumeVarint(rest)
	if n < 0 {
		return nil, corrupt(protowire.ParseError(n))
	}
	rest = rest[n:]
	if version != Version {
		err := zerr.Wrap(domain.ErrIncompatibleArtifact, "unsupported artifact version")
		err = zerr.With(err, "expected_version", Version)
		return nil, zerr.With(err, "found_version", version)
	}

	found, n := protowire.ConsumeVarint(rest)
	if n < 0 {
		return nil, corrupt(protowire.ParseError(n))
	}
	rest = rest[n:]
	if Kind(found) != kind {
		err := zerr.Wrap(domain.ErrIncompatibleArtifact, "unexpected artifact kind")
		err = zerr.With(err, "expected_kind", kind.String())
		return nil, zerr.With(err, "found_kind", Kind(found).String())
	}

	if len(rest) < checksumSize {
		return nil, zerr.Wrap(domain.ErrCorruptArtifact, "artifact is truncated")
	}
	body := rest[:len(rest)-checksumSize]
	sum, _ := protowire.ConsumeFixed64(rest[len(body):])
	if sum != xxhash.Sum64(body) {
		return nil, zerr.Wrap(domain.ErrCorruptArtifact, "artifact checksum mismatch")
	}
	return body, nil
}

func identity(s string) string { return s }
