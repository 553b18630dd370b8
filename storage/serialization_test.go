package storage

import (
	"testing"
	"time"

	"github.com/poiesic/remedymatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRemedyRecord(t *testing.T) {
	tests := []struct {
		name   string
		record core.RemedyRecord
	}{
		{"simple", core.RemedyRecord{Effect: "Relieves headache pain", Remedy: "Peppermint oil"}},
		{"unicode", core.RemedyRecord{Effect: "Soulage la toux sèche", Remedy: "Thym 🌿"}},
		{"separators in text", core.RemedyRecord{Effect: "a\x1fb\x1ec", Remedy: "\n\t"}},
		{"long effect", core.RemedyRecord{Effect: string(make([]byte, 5000)), Remedy: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalRemedyRecord(&tt.record)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalRemedyRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.record, *decoded)
		})
	}
}

func TestUnmarshalRemedyRecord_Invalid(t *testing.T) {
	valid := MarshalRemedyRecord(&core.RemedyRecord{Effect: "Calms anxiety", Remedy: "Lavender"})

	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
		{"truncated", valid[:len(valid)-3]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalRemedyRecord(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestMarshalUnmarshalCorpusMeta(t *testing.T) {
	imported := time.Date(2026, 3, 14, 15, 9, 26, 535897000, time.UTC)

	tests := []struct {
		name string
		meta core.CorpusMeta
	}{
		{"zero", core.CorpusMeta{ImportedAt: time.UnixMicro(0).UTC()}},
		{"typical", core.CorpusMeta{
			Fingerprint: core.IDFromContent("corpus"),
			Count:       250,
			Source:      "expanded_natural_remedy_effects.csv",
			ImportedAt:  imported,
		}},
		{"max fingerprint", core.CorpusMeta{
			Fingerprint: core.ID(18446744073709551615),
			Count:       1,
			Source:      "/tmp/ü.csv",
			ImportedAt:  imported,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalCorpusMeta(MarshalCorpusMeta(&tt.meta))
			require.NoError(t, err)
			assert.Equal(t, tt.meta.Fingerprint, decoded.Fingerprint)
			assert.Equal(t, tt.meta.Count, decoded.Count)
			assert.Equal(t, tt.meta.Source, decoded.Source)
			assert.True(t, tt.meta.ImportedAt.Equal(decoded.ImportedAt))
			assert.Equal(t, time.UTC, decoded.ImportedAt.Location())
		})
	}
}

func TestMarshalCorpusMeta_TruncatesToMicroseconds(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 123456789, time.UTC)
	decoded, err := UnmarshalCorpusMeta(MarshalCorpusMeta(&core.CorpusMeta{ImportedAt: at}))
	require.NoError(t, err)
	assert.Equal(t, at.Truncate(time.Microsecond), decoded.ImportedAt)
}

func TestUnmarshalCorpusMeta_Invalid(t *testing.T) {
	valid := MarshalCorpusMeta(&core.CorpusMeta{
		Fingerprint: core.IDFromContent("x"),
		Count:       3,
		Source:      "remedies.csv",
		ImportedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	t.Run("empty", func(t *testing.T) {
		_, err := UnmarshalCorpusMeta(nil)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := UnmarshalCorpusMeta(valid[:len(valid)-1])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}
