package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestComment_PublishedMarshalsAsUTC(t *testing.T) {
	c := Comment{
		ID:        "01J8ZQ34YCN5M2V1T6RH8K9XWD",
		Author:    "https://example.com/users/alice",
		Published: time.Date(2026, 8, 25, 10, 40, 9, 123000000, time.UTC),
		Content:   "hello",
		Target:    "https://example.com/posts/42",
	}
	data, err := json.Marshal(&c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"published":"2026-08-25T10:40:09.123Z"`) {
		t.Errorf("published not serialized as UTC with Z suffix: %s", data)
	}
}

func TestComment_ParentOmittedWhenEmpty(t *testing.T) {
	c := Comment{ID: "01J8ZQ34YCN5M2V1T6RH8K9XWD", Published: time.Now().UTC()}
	data, err := json.Marshal(&c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), `"parent"`) {
		t.Errorf("empty parent should be omitted: %s", data)
	}

	c.Parent = "01J8ZQ2XZZZZZZZZZZZZZZZZZZ"
	data, err = json.Marshal(&c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"parent"`) {
		t.Errorf("set parent should be serialized: %s", data)
	}
	if !c.IsReply() {
		t.Error("IsReply() = false for comment with parent")
	}
}

func TestFlagsPatch_Apply(t *testing.T) {
	f := Flags{Hidden: true}
	tr, fa := true, false
	patch := FlagsPatch{Hidden: &fa, Reported: &tr}
	patch.Apply(&f)

	want := Flags{Hidden: false, Moderated: false, Reported: true, Deleted: false}
	if f != want {
		t.Errorf("after Apply: %+v, want %+v", f, want)
	}
}

func TestFlagsPatch_ApplyLeavesUnsetFields(t *testing.T) {
	f := Flags{Moderated: true, Deleted: true}
	tr := true
	FlagsPatch{Hidden: &tr}.Apply(&f)

	want := Flags{Hidden: true, Moderated: true, Deleted: true}
	if f != want {
		t.Errorf("after Apply: %+v, want %+v", f, want)
	}
}

func TestFlagsPatch_IsZero(t *testing.T) {
	if !(FlagsPatch{}).IsZero() {
		t.Error("empty patch should be zero")
	}
	tr := true
	if (FlagsPatch{Deleted: &tr}).IsZero() {
		t.Error("patch with a set field should not be zero")
	}
}

func TestSnapshot_EncodeDeterministic(t *testing.T) {
	build := func(order []string) *Snapshot {
		s := NewSnapshot()
		for _, target := range order {
			s.Targets[target] = []string{"01J8ZQ34YCN5M2V1T6RH8K9XWD"}
		}
		s.Replies["01J8ZQ34YCN5M2V1T6RH8K9XWD"] = []string{"01J8ZQ4AAAAAAAAAAAAAAAAAAA"}
		s.Flags["01J8ZQ34YCN5M2V1T6RH8K9XWD"] = Flags{Reported: true}
		return s
	}

	a, err := build([]string{"t/one", "t/two", "t/three"}).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, err := build([]string{"t/three", "t/one", "t/two"}).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("same state encoded differently:\n%s\n---\n%s", a, b)
	}
}

func TestSnapshot_EncodeEmpty(t *testing.T) {
	data, err := NewSnapshot().Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Version != SnapshotVersion {
		t.Errorf("version = %d, want %d", decoded.Version, SnapshotVersion)
	}
	for _, key := range []string{`"targets": {}`, `"replies": {}`, `"flags": {}`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("empty snapshot missing %s:\n%s", key, data)
		}
	}
}
