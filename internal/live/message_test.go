package live

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kasuwa/server/internal/catalog"
)

func TestSnapshotMessage_EmptyCatalogSerializesAsArray(t *testing.T) {
	data, err := json.Marshal(snapshotMessage(nil))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded struct {
		Event    string            `json:"event"`
		Products []catalog.Product `json:"products"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Event != EventSnapshot {
		t.Errorf("event = %q, want %q", decoded.Event, EventSnapshot)
	}
	// An empty catalog still produces a products array, not a missing
	// or null field.
	if !strings.Contains(string(data), `"products":[]`) {
		t.Errorf("payload = %s, want a \"products\":[] array", data)
	}
}

func TestNewProductMessage_CarriesSingleProduct(t *testing.T) {
	p := catalog.Product{ID: 7, Name: "Rice 25kg", Contact: "seller"}
	data, err := json.Marshal(newProductMessage(p))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Event != EventNewProduct {
		t.Errorf("event = %q, want %q", decoded.Event, EventNewProduct)
	}
	if decoded.Product == nil || decoded.Product.ID != 7 {
		t.Errorf("product = %+v, want ID 7", decoded.Product)
	}
}
