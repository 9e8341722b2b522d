package ws

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestSerializeDeserialize_RoundTrip(t *testing.T) {
	original := &MessageJoinGroup{GroupID: 42}

	data, err := Serialize(original)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	msg, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	join, ok := msg.(*MessageJoinGroup)
	if !ok {
		t.Fatalf("deserialized type = %T, want *MessageJoinGroup", msg)
	}
	if join.GroupID != 42 {
		t.Errorf("group_id = %d, want 42", join.GroupID)
	}
}

func TestDeserialize_UnknownType(t *testing.T) {
	if _, err := Deserialize([]byte(`{"type":"nope","payload":{}}`)); err == nil {
		t.Error("expected error for unregistered type")
	}
}

func TestDeserialize_EmptyPayload(t *testing.T) {
	msg, err := Deserialize([]byte(`{"type":"ping"}`))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if msg.GetType() != "ping" {
		t.Errorf("type = %q, want ping", msg.GetType())
	}
}

func TestTypeRegistry_ClientEvents(t *testing.T) {
	registry := GetTypeRegistry()
	for _, name := range []string{"joinGroup", "leaveGroup", "markMessagesAsRead", "ping", "pong"} {
		if _, ok := registry[name]; !ok {
			t.Errorf("type %q not registered", name)
		}
	}
}

func TestEnvelope_WireShape(t *testing.T) {
	env := Envelope{Type: "newMessage", Payload: map[string]interface{}{"id": 1}}
	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Type    string                 `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != "newMessage" || decoded.Payload["id"] != float64(1) {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestCompressDecompress_RoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("group chat history "), 100)

	compressed, err := CompressMessage(payload)
	if err != nil {
		t.Fatalf("CompressMessage: %v", err)
	}
	if len(compressed) >= len(payload) {
		t.Errorf("compressed %d bytes >= original %d bytes", len(compressed), len(payload))
	}

	out, err := DecompressMessage(compressed)
	if err != nil {
		t.Fatalf("DecompressMessage: %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Error("round trip does not match original")
	}
}

func TestDecompressMessage_InvalidData(t *testing.T) {
	if _, err := DecompressMessage([]byte("not gzip at all")); err == nil {
		t.Error("expected error for malformed gzip data")
	}
}
