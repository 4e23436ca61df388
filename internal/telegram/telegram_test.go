package telegram

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetUpdates_MapsMessagesAndEdits(t *testing.T) {
	var gotOffset string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getUpdates" {
			http.NotFound(w, r)
			return
		}
		gotOffset = r.URL.Query().Get("offset")
		_, _ = io.WriteString(w, `{"ok":true,"result":[
			{"update_id":11,"message":{"message_id":1,"chat":{"id":123},"text":"hi","date":1700000000}},
			{"update_id":12,"edited_message":{"message_id":1,"chat":{"id":123},"text":"!google go","date":1700000000,"edit_date":1700000100}},
			{"update_id":13,"channel_post":{"chat":{"id":9}}}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	updates, err := c.GetUpdates(11, 0)
	if err != nil {
		t.Fatalf("GetUpdates failed: %v", err)
	}
	if gotOffset != "11" {
		t.Fatalf("expected offset 11, got %q", gotOffset)
	}
	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %d", len(updates))
	}
	if updates[0].Edited || updates[0].Message == nil || *updates[0].Message.Text != "hi" {
		t.Fatalf("unexpected first update: %#v", updates[0])
	}
	if !updates[1].Edited || updates[1].Message == nil || *updates[1].Message.Text != "!google go" {
		t.Fatalf("unexpected edited update: %#v", updates[1])
	}
	if updates[1].Message.EditDate != 1700000100 {
		t.Fatalf("expected edit_date to be decoded, got %d", updates[1].Message.EditDate)
	}
	if updates[2].Message != nil || updates[2].UpdateID != 13 {
		t.Fatalf("expected bare update for unsupported type, got %#v", updates[2])
	}
}

func TestGetUpdates_NotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ok":false,"description":"Unauthorized"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	_, err := c.GetUpdates(0, 0)
	if err == nil || !strings.Contains(err.Error(), "Unauthorized") {
		t.Fatalf("expected not-ok error, got %v", err)
	}
}

func TestSendMessage_PostsTextAndTruncates(t *testing.T) {
	var got struct {
		ChatID int64  `json:"chat_id"`
		Text   string `json:"text"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sendMessage" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		_, _ = io.WriteString(w, `{"ok":true,"result":{}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 2*time.Second)
	long := strings.Repeat("é", maxMessageChars+10)
	if err := c.SendMessage(123, long); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if got.ChatID != 123 {
		t.Fatalf("expected chat 123, got %d", got.ChatID)
	}
	if n := len([]rune(got.Text)); n != maxMessageChars {
		t.Fatalf("expected %d chars, got %d", maxMessageChars, n)
	}
}

func TestSendMessage_NotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ok":false,"description":"Bad Request: chat not found"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	if err := c.SendMessage(1, "x"); err == nil {
		t.Fatal("expected error")
	}
}
