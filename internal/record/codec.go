package record

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/lyssieth/devenv/internal/registry"
)

// Version is the current record format version.
const Version byte = 1

var magic = []byte("DVNV")

const headerLen = 5

// ErrCorruptRecord matches every decode failure via errors.Is.
var ErrCorruptRecord = errors.New("corrupt template record")

// CorruptRecordError describes why bytes could not be decoded.
type CorruptRecordError struct {
	Reason string
	Err    error
}

func (e *CorruptRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrCorruptRecord, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrCorruptRecord, e.Reason)
}

func (e *CorruptRecordError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrCorruptRecord) match.
func (e *CorruptRecordError) Is(target error) bool {
	return target == ErrCorruptRecord
}

type wireEntity struct {
	Name    string   `cbor:"1,keyasint"`
	Aliases []string `cbor:"2,keyasint"` // nil encodes as null, empty as []
}

type wireTool struct {
	Name     string   `cbor:"1,keyasint"`
	Aliases  []string `cbor:"2,keyasint"` // nil encodes as null, empty as []
	Filename string   `cbor:"3,keyasint"`
}

type wireRecord struct {
	Language wireEntity `cbor:"1,keyasint"`
	Platform wireEntity `cbor:"2,keyasint"`
	Tool     wireTool   `cbor:"3,keyasint"`
	Body     []byte     `cbor:"4,keyasint"` // byte string: bodies need not be UTF-8
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("record: cbor encoder: %v", err))
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("record: cbor decoder: %v", err))
	}
}

// Encode serializes a record. Output is deterministic for equal records.
func Encode(r Record) ([]byte, error) {
	w := wireRecord{
		Language: toWireEntity(r.Language),
		Platform: toWireEntity(r.Platform),
		Tool: wireTool{
			Name:     r.Tool.Name,
			Aliases:  r.Tool.Aliases,
			Filename: r.Tool.Filename,
		},
		Body: []byte(r.Body),
	}

	payload, err := encMode.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encoding record %s: %w", r.Key(), err)
	}

	buf := make([]byte, 0, headerLen+len(payload))
	buf = append(buf, magic...)
	buf = append(buf, Version)
	buf = append(buf, payload...)
	return buf, nil
}

// Decode parses bytes produced by Encode. Any mismatch yields a
// *CorruptRecordError.
func Decode(data []byte) (Record, error) {
	if len(data) < headerLen || !bytes.Equal(data[:len(magic)], magic) {
		return Record{}, &CorruptRecordError{Reason: "not a devenv template record"}
	}
	if v := data[len(magic)]; v != Version {
		return Record{}, &CorruptRecordError{Reason: fmt.Sprintf("unsupported format version %d", v)}
	}

	var w wireRecord
	if err := decMode.Unmarshal(data[headerLen:], &w); err != nil {
		return Record{}, &CorruptRecordError{Reason: "malformed payload", Err: err}
	}

	switch {
	case w.Tool.Name == "":
		return Record{}, &CorruptRecordError{Reason: "missing tool name"}
	case w.Platform.Name == "":
		return Record{}, &CorruptRecordError{Reason: "missing platform name"}
	case w.Language.Name == "":
		return Record{}, &CorruptRecordError{Reason: "missing language name"}
	}

	return Record{
		Language: fromWireEntity(w.Language),
		Platform: fromWireEntity(w.Platform),
		Tool: registry.Tool{
			Entity:   registry.Entity{Name: w.Tool.Name, Aliases: w.Tool.Aliases},
			Filename: w.Tool.Filename,
		},
		Body: string(w.Body),
	}, nil
}

func toWireEntity(e registry.Entity) wireEntity {
	return wireEntity{Name: e.Name, Aliases: e.Aliases}
}

func fromWireEntity(w wireEntity) registry.Entity {
	return registry.Entity{Name: w.Name, Aliases: w.Aliases}
}
