package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParticipantID_UnmarshalStringOrNumber(t *testing.T) {
	var p Participant
	if err := json.Unmarshal([]byte(`{"id":7,"name":"Budi","role":"user"}`), &p); err != nil {
		t.Fatalf("numeric id should unmarshal: %v", err)
	}
	if p.ID != "7" {
		t.Errorf("expected id 7, got %s", p.ID)
	}

	if err := json.Unmarshal([]byte(`{"id":"guest_1_abc","name":"Guest","role":"anonymous"}`), &p); err != nil {
		t.Fatalf("string id should unmarshal: %v", err)
	}
	if p.ID != "guest_1_abc" {
		t.Errorf("expected guest id, got %s", p.ID)
	}

	if err := json.Unmarshal([]byte(`{"id":true}`), &p); err == nil {
		t.Error("boolean id should be rejected")
	}
}

func TestParticipantID_MarshalShape(t *testing.T) {
	data, err := json.Marshal(Participant{ID: "7", Name: "Budi", Role: RoleUser})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"id":7`) {
		t.Errorf("registered ids must marshal as numbers, got %s", data)
	}

	data, err = json.Marshal(Participant{ID: "guest_1_abc", Name: "Guest", Role: RoleAnonymous})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"id":"guest_1_abc"`) {
		t.Errorf("guest ids must marshal as strings, got %s", data)
	}
}

func TestParticipantID_Int64(t *testing.T) {
	if n, ok := ParticipantID("42").Int64(); !ok || n != 42 {
		t.Errorf("expected 42, got %d ok=%v", n, ok)
	}
	if _, ok := ParticipantID("guest_1_abc").Int64(); ok {
		t.Error("guest id must not parse as an integer")
	}
}

func TestUserRoomID(t *testing.T) {
	if got := UserRoomID(7); got != "user_7" {
		t.Errorf("expected user_7, got %s", got)
	}
	if !IsUserRoom("user_7") {
		t.Error("user_7 should be a user room")
	}
	if IsUserRoom("anon_1_abc") {
		t.Error("anon room is not a user room")
	}
}

func TestNewAnonymousRoomID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewAnonymousRoomID()
		if !IsEphemeralRoom(id) {
			t.Fatalf("room id %s should carry the anon_ prefix", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("room id %s generated twice", id)
		}
		seen[id] = struct{}{}
	}
}

func TestUser_Participant(t *testing.T) {
	u := User{ID: 7, Name: "Budi", Role: "user"}
	p := u.Participant()
	if p.ID != "7" || p.Name != "Budi" || p.Role != RoleUser {
		t.Errorf("unexpected participant %+v", p)
	}

	a := User{ID: 1, Name: "Op", Role: "admin"}
	if got := a.Participant().Role; got != RoleAdmin {
		t.Errorf("admin account should map to admin role, got %s", got)
	}

	odd := User{ID: 2, Name: "X", Role: "moderator"}
	if got := odd.Participant().Role; got != RoleUser {
		t.Errorf("unknown account roles should map to user, got %s", got)
	}
}

func TestStoredMessage_SenderNormalization(t *testing.T) {
	id := int64(7)
	m := StoredMessage{SenderID: &id, SenderName: "Budi", SenderRole: "admin"}
	sender := m.Sender()
	if sender.ID != "7" || sender.Role != RoleAdmin {
		t.Errorf("unexpected sender %+v", sender)
	}

	anon := StoredMessage{SenderName: "", SenderRole: ""}
	sender = anon.Sender()
	if sender.Name != "Anonymous" || sender.Role != RoleUser {
		t.Errorf("fallbacks not applied: %+v", sender)
	}
	if sender.ID != "" {
		t.Errorf("anonymous sender should have no id, got %s", sender.ID)
	}
}
