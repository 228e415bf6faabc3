package tags

import (
	"bytes"
	"encoding/json"

	"github.com/dmota/tagbank/internal/model"
)

// MediaType is the media type of the tag record carrying the payload
const MediaType = "application/json"

// RecordTypeMime is the NDEF record type for MIME-typed records
const RecordTypeMime = "mime"

// Payload is the JSON object stored on a player tag
type Payload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// Empty reports whether the payload is blank, as written by Clear
func (p Payload) Empty() bool {
	return p.PlayerID == "" && p.Name == ""
}

// Record is the wire envelope for a single tag record, mirroring the
// NDEF MIME record the reader produces
type Record struct {
	RecordType string          `json:"recordType"`
	MediaType  string          `json:"mediaType"`
	Data       json.RawMessage `json:"data"`
}

// EncodeRecord wraps a payload in its record envelope
func EncodeRecord(p Payload) (Record, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return Record{}, err
	}
	return Record{
		RecordType: RecordTypeMime,
		MediaType:  MediaType,
		Data:       data,
	}, nil
}

// DecodeRecord extracts the payload from a record envelope.
//
// Decoding is strict: wrong record or media type, non-object data, unknown
// fields and non-string values all fail with model.ErrMalformedPayload
// rather than passing garbage through to the ledger.
func DecodeRecord(r Record) (Payload, error) {
	if r.RecordType != RecordTypeMime || r.MediaType != MediaType {
		return Payload{}, model.ErrMalformedPayload
	}
	return DecodePayload(r.Data)
}

// DecodePayload strictly decodes raw payload bytes
func DecodePayload(data []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return Payload{}, model.ErrMalformedPayload
	}
	// Trailing content after the object is also malformed
	if dec.More() {
		return Payload{}, model.ErrMalformedPayload
	}
	return p, nil
}
