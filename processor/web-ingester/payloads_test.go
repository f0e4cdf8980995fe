package webingester

import (
	"testing"

	"github.com/c360studio/semstreams/payloadregistry"
)

func TestRegisterPayloads(t *testing.T) {
	reg := payloadregistry.New()
	if err := RegisterPayloads(reg); err != nil {
		t.Fatalf("RegisterPayloads: %v", err)
	}

	if _, ok := reg.Create("web", "document", "v1").(*DocumentPayload); !ok {
		t.Error("web.document.v1 factory did not produce a DocumentPayload")
	}

	if err := RegisterPayloads(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestDocumentPayloadSchema(t *testing.T) {
	if got := (&DocumentPayload{}).Schema(); got != DocumentType {
		t.Errorf("schema = %v, want %v", got, DocumentType)
	}
}
