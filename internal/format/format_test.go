package format

import (
	"bytes"
	"testing"
	"time"

	"recipe-keeper/internal/model"
)

func TestWrite_JSONEnvelopeKeepsMarkupReadable(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	env := Envelope{Data: model.Body{Ingredients: "salt", Instructions: "<b>boil</b>", Tags: ""}}
	if err := Write(&buf, env, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{"data":{"ingredients":"salt","instructions":"<b>boil</b>","tags":""}}` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWrite_EDN(t *testing.T) {
	t.Parallel()
	r := model.Recipe{
		ID:           9007199254740993,
		Title:        "Soup \"hot\"",
		Instructions: "line1\nline2",
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	var buf bytes.Buffer
	if err := Write(&buf, Envelope{Data: []model.Recipe{r}}, "EDN", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{:data [{:created-at "2024-01-02T03:04:05Z" :id 9007199254740993 :ingredients "" :instructions "line1\nline2" :tags "" :title "Soup \"hot\""}]}` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestWrite_EDNPretty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	v := map[string]any{"ids": []int{1, 2}, "empty": []int{}, "ok": true, "none": nil}
	if err := WriteEDN(&buf, v, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :empty []\n  :ids [\n    1\n    2\n  ]\n  :none nil\n  :ok true\n}\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()
	if err := Write(&bytes.Buffer{}, 1, "yaml", false); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if Valid("yaml") || !Valid("edn") || !Valid("") {
		t.Fatal("Valid disagrees with Write")
	}
}
