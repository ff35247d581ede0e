package session

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRedisStore_KeyAndEncode(t *testing.T) {
	s := NewRedisStore(nil, "wizard:session:", 30*time.Minute)

	if got := s.key("abc"); got != "wizard:session:abc" {
		t.Errorf("key = %q", got)
	}

	sess := lessonSession("abc")
	before := time.Now()
	data, err := s.encode(sess)
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}

	if sess.ExpiresAt.Sub(sess.UpdatedAt) != 30*time.Minute {
		t.Errorf("ExpiresAt - UpdatedAt = %s, want 30m", sess.ExpiresAt.Sub(sess.UpdatedAt))
	}
	if sess.UpdatedAt.Before(before) {
		t.Error("UpdatedAt not refreshed")
	}

	var decoded Session
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("encoded session is not JSON: %v", err)
	}
	if decoded.ID != "abc" || decoded.Step != sess.Step || decoded.Version != sess.Version {
		t.Errorf("decoded = %+v, want %+v", decoded, *sess)
	}
}
