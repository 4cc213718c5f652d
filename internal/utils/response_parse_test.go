package utils

import "testing"

type sample struct {
	Reply string  `json:"reply"`
	Score float64 `json:"score"`
}

func TestDecodeJSONObject(t *testing.T) {
	var got sample
	generic, err := DecodeJSONObject(`{"reply":"응","score":0.5}`, &got)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Reply != "응" || got.Score != 0.5 {
		t.Fatalf("unexpected value: %#v", got)
	}
	if generic["reply"] != "응" {
		t.Fatalf("unexpected generic value: %#v", generic)
	}
}

func TestDecodeJSONObjectWithWrapper(t *testing.T) {
	var got sample
	if _, err := DecodeJSONObject("```json\n{\"reply\":\"hi\",\"score\":1}\n``` done", &got); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Reply != "hi" {
		t.Fatalf("unexpected reply: %s", got.Reply)
	}
}

func TestDecodeJSONObjectInvalid(t *testing.T) {
	var got sample
	if _, err := DecodeJSONObject(`not json`, &got); err == nil {
		t.Fatalf("expected error for invalid output")
	}
	if _, err := DecodeJSONObject(`   `, &got); err == nil {
		t.Fatalf("expected error for empty output")
	}
}
