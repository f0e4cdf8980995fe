package batchchunker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/c360studio/semstreams/payloadregistry"

	"github.com/prospectio/prospector/source"
)

func TestRegisterPayloads(t *testing.T) {
	reg := payloadregistry.New()
	if err := RegisterPayloads(reg); err != nil {
		t.Fatalf("RegisterPayloads: %v", err)
	}

	if _, ok := reg.Create("chunk", "batch", "v1").(*DocumentBatchPayload); !ok {
		t.Error("chunk.batch.v1 factory did not produce a DocumentBatchPayload")
	}
	if _, ok := reg.Create("chunk", "record", "v1").(*ChunkRecordPayload); !ok {
		t.Error("chunk.record.v1 factory did not produce a ChunkRecordPayload")
	}

	if err := RegisterPayloads(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestDocumentBatchPayloadValidate(t *testing.T) {
	empty := &DocumentBatchPayload{}
	if err := empty.Validate(); err == nil {
		t.Error("expected error for batch without documents")
	}

	batch := &DocumentBatchPayload{
		Documents: []source.Document{
			{Text: "hello", Meta: source.Metadata{URL: "https://example.com"}},
		},
	}
	if err := batch.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestChunkRecordPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload ChunkRecordPayload
		wantErr bool
	}{
		{
			name: "valid",
			payload: ChunkRecordPayload{
				BatchID:    "b-1",
				Chunk:      source.Chunk{Text: "content", Index: 0, Total: 1},
				ProducedAt: time.Now(),
			},
			wantErr: false,
		},
		{
			name:    "missing batch ID",
			payload: ChunkRecordPayload{Chunk: source.Chunk{Text: "content"}},
			wantErr: true,
		},
		{
			name:    "missing chunk text",
			payload: ChunkRecordPayload{BatchID: "b-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestChunkRecordPayloadRoundTrip(t *testing.T) {
	original := &ChunkRecordPayload{
		BatchID: "batch-42",
		Chunk: source.Chunk{
			Text:  "some chunk text",
			Index: 1,
			Total: 3,
			Sources: []source.Metadata{
				{URL: "https://example.com/a", Title: "A"},
			},
		},
		ProducedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded ChunkRecordPayload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.BatchID != original.BatchID {
		t.Errorf("batch ID = %q, want %q", decoded.BatchID, original.BatchID)
	}
	if decoded.Chunk.Text != original.Chunk.Text || decoded.Chunk.Index != 1 || decoded.Chunk.Total != 3 {
		t.Errorf("chunk mismatch: %+v", decoded.Chunk)
	}
	if len(decoded.Chunk.Sources) != 1 || decoded.Chunk.Sources[0].URL != "https://example.com/a" {
		t.Errorf("sources mismatch: %+v", decoded.Chunk.Sources)
	}
}

func TestPayloadSchemas(t *testing.T) {
	if got := (&DocumentBatchPayload{}).Schema(); got != DocumentBatchType {
		t.Errorf("batch schema = %v", got)
	}
	if got := (&ChunkRecordPayload{}).Schema(); got != ChunkRecordType {
		t.Errorf("record schema = %v", got)
	}
}
