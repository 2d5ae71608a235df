package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role determines how the relay routes a participant's traffic.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleAnonymous Role = "anonymous"
)

// ParticipantID is the identity key attached to a live connection.
// Registered users carry their backing-store integer id; anonymous guests
// carry an opaque token minted at connect time. On the wire either shape may
// arrive, as a JSON number or a JSON string.
type ParticipantID string

func (id ParticipantID) String() string { return string(id) }

// Int64 reports the backing-store user id when the participant is a
// registered user. Anonymous tokens are not numeric.
func (id ParticipantID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (id *ParticipantID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ParticipantID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ParticipantID(n.String())
		return nil
	}
	return fmt.Errorf("participant id must be a string or number, got %s", data)
}

func (id ParticipantID) MarshalJSON() ([]byte, error) {
	// Registered ids stay numeric on the wire for client compatibility.
	if n, ok := id.Int64(); ok {
		return json.Marshal(n)
	}
	return json.Marshal(string(id))
}

// Participant is the identity attached to a live connection. It is built
// once at connect/join time, never mutated, and discarded on disconnect.
type Participant struct {
	ID   ParticipantID `json:"id"`
	Name string        `json:"name"`
	Role Role          `json:"role"`
}

// IsAdmin reports whether the participant may open arbitrary rooms.
func (p Participant) IsAdmin() bool { return p.Role == RoleAdmin }

// AdminGlobalRoom is the singleton room every admin connection listens on.
const AdminGlobalRoom = "admin_global"

// UserRoomID returns the stable room id for a registered user. The same
// user always resolves to the same room, so history survives reconnects.
func UserRoomID(userID int64) string {
	return fmt.Sprintf("user_%d", userID)
}

// NewAnonymousRoomID mints an ephemeral room id. Each anonymous connection
// gets a fresh one; the id is never reused after the room empties out.
func NewAnonymousRoomID() string {
	return fmt.Sprintf("anon_%d_%s", time.Now().UnixMilli(), shortSuffix())
}

// NewAnonymousID mints a participant token for a guest who declared only a
// display name. The namespace is distinct from registered integer ids.
func NewAnonymousID() ParticipantID {
	return ParticipantID(fmt.Sprintf("guest_%d_%s", time.Now().UnixMilli(), shortSuffix()))
}

// IsEphemeralRoom reports whether the room id belongs to an anonymous
// session and should be garbage-collected once its last member leaves.
func IsEphemeralRoom(roomID string) bool {
	return strings.HasPrefix(roomID, "anon_")
}

// IsUserRoom reports whether the room id is a registered user's room.
func IsUserRoom(roomID string) bool {
	return strings.HasPrefix(roomID, "user_")
}

func shortSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
