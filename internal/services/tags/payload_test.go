package tags

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmota/tagbank/internal/model"
)

func TestEncodeDecodeRecordRoundTrip(t *testing.T) {
	original := Payload{PlayerID: "player-1", Name: "Alice"}

	record, err := EncodeRecord(original)
	require.NoError(t, err)
	assert.Equal(t, RecordTypeMime, record.RecordType)
	assert.Equal(t, MediaType, record.MediaType)

	decoded, err := DecodeRecord(record)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeRecordWrongRecordType(t *testing.T) {
	record, err := EncodeRecord(Payload{PlayerID: "p", Name: "n"})
	require.NoError(t, err)
	record.RecordType = "text"

	_, err = DecodeRecord(record)
	assert.ErrorIs(t, err, model.ErrMalformedPayload)
}

func TestDecodeRecordWrongMediaType(t *testing.T) {
	record, err := EncodeRecord(Payload{PlayerID: "p", Name: "n"})
	require.NoError(t, err)
	record.MediaType = "text/plain"

	_, err = DecodeRecord(record)
	assert.ErrorIs(t, err, model.ErrMalformedPayload)
}

func TestDecodePayloadStrict(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"unknown field", `{"playerId":"p","name":"n","extra":true}`},
		{"non-object", `"just a string"`},
		{"array", `["playerId"]`},
		{"trailing content", `{"playerId":"p","name":"n"}{"again":true}`},
		{"non-string value", `{"playerId":7,"name":"n"}`},
		{"empty input", ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodePayload([]byte(tc.data))
			assert.ErrorIs(t, err, model.ErrMalformedPayload)
		})
	}
}

func TestDecodePayloadAcceptsValidObject(t *testing.T) {
	p, err := DecodePayload([]byte(`{"playerId":"abc","name":"Bob"}`))
	require.NoError(t, err)
	assert.Equal(t, Payload{PlayerID: "abc", Name: "Bob"}, p)
}

func TestPayloadEmpty(t *testing.T) {
	assert.True(t, Payload{}.Empty())
	assert.False(t, Payload{PlayerID: "p"}.Empty())
	assert.False(t, Payload{Name: "n"}.Empty())
}

func TestRecordDataIsRawPayloadJSON(t *testing.T) {
	record, err := EncodeRecord(Payload{PlayerID: "p1", Name: "Alice"})
	require.NoError(t, err)

	var p Payload
	require.NoError(t, json.Unmarshal(record.Data, &p))
	assert.Equal(t, "p1", p.PlayerID)
}
