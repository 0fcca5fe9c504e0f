package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/crimson-sun/eventlogtrack/internal/model"
)

const defaultFormat = "ELT [[event-log:type]] [[event-log:ref_char]] [[event-log:operation]] ON [[event-log:path]] BY [user:[event-log:user:uid]:[event-log:user:name]:[event-log:user:roles:join:,]] [[event-log:description]]"

func configSave() model.EventRecord {
	return model.EventRecord{
		Operation:   "save",
		Type:        "config",
		RefChar:     "event_log_track.settings",
		Path:        "admin/config/development/logging",
		Description: "x",
		User:        model.User{UID: 1, Name: "admin", Roles: []string{"administrator"}},
	}
}

func TestRenderDefaultFormat(t *testing.T) {
	got, err := Render(defaultFormat, EventData(configSave(), model.Notice))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "ELT [config] [event_log_track.settings] [save] ON [admin/config/development/logging] BY [user:1:admin:administrator] [x]"
	if got != want {
		t.Fatalf("got  %q\nwant %q", got, want)
	}
}

func TestRenderAnonymousFailure(t *testing.T) {
	rec := model.EventRecord{
		Operation: "fail",
		Type:      "authorization",
		Path:      "user/1/edit",
		User:      model.User{UID: 0, Name: "anonymous"},
	}
	got, err := Render(defaultFormat, EventData(rec, model.Warning))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "ELT [authorization] [] [fail] ON [user/1/edit] BY [user:0:anonymous:]") {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderFields(t *testing.T) {
	rec := configSave()
	rec.RefNumeric = 7
	rec.IP = "10.0.0.1"
	rec.Created = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	rec.User.Mail = "admin@example.com"
	rec.User.Roles = []string{"authenticated", "editor", "administrator"}
	rec.Extra = map[string]any{
		"bundle": "article",
		"tags":   []any{"a", 2},
		"entity": map[string]any{"label": "Home"},
	}

	tests := []struct {
		template string
		want     string
	}{
		{"[event-log:id]", "7"},
		{"[event-log:ref_numeric]", "7"},
		{"[event-log:ip]", "10.0.0.1"},
		{"[event-log:severity]", "5"},
		{"[event-log:created]", "2026-03-01T09:30:00Z"},
		{"[event-log:user]", "admin"},
		{"[event-log:user:mail]", "admin@example.com"},
		{"[event-log:user:roles]", "authenticated, editor, administrator"},
		{"[event-log:user:roles:join:|]", "authenticated|editor|administrator"},
		{"[event-log:user:roles:join::]", "authenticated:editor:administrator"},
		{"[event-log:user:roles:first]", "authenticated"},
		{"[event-log:user:roles:last]", "administrator"},
		{"[event-log:user:roles:count]", "3"},
		{"[event-log:user:roles:value:1]", "editor"},
		{"[event-log:user:roles:value:9]", ""},
		{"[event-log:user:roles:reversed:join:,]", "administrator,editor,authenticated"},
		{"[event-log:bundle]", "article"},
		{"[event-log:tags:join:-]", "a-2"},
		{"[event-log:entity:label]", "Home"},
		{"[event-log:nope]", ""},
		{"[event-log:user:nope]", ""},
		{"[site:name]", ""},
		{"plain text", "plain text"},
	}
	for _, tt := range tests {
		got, err := Render(tt.template, EventData(rec, model.Notice))
		if err != nil {
			t.Errorf("Render(%q) error: %v", tt.template, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Render(%q) = %q, want %q", tt.template, got, tt.want)
		}
	}
}

func TestRenderMalformedTokens(t *testing.T) {
	tests := []string{
		"[event-log:type:join:,]",
		"[event-log:user:uid:first]",
		"[event-log:user:roles:shuffle]",
		"[event-log:user:roles:value:x]",
		"[event-log:user:roles:count:more]",
	}
	for _, tmpl := range tests {
		got, err := Render("A "+tmpl+" B", EventData(configSave(), model.Notice))
		if err == nil {
			t.Errorf("Render(%q): expected error", tmpl)
			continue
		}
		var rerr *RenderError
		if !errors.As(err, &rerr) {
			t.Errorf("Render(%q): error %v is not a *RenderError", tmpl, err)
			continue
		}
		if rerr.Token != tmpl {
			t.Errorf("RenderError.Token = %q, want %q", rerr.Token, tmpl)
		}
		// Best-effort output blanks the failing token.
		if got != "A  B" {
			t.Errorf("Render(%q) best effort = %q, want %q", tmpl, got, "A  B")
		}
	}
}

func TestRenderEscapesLineBreaks(t *testing.T) {
	rec := configSave()
	rec.Description = "line one\nline two\r\nline three"
	got, err := Render("[event-log:description]", EventData(rec, model.Notice))
	if err != nil {
		t.Fatal(err)
	}
	want := "line one#012line two#015#012line three"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderKeepsDecomposedText(t *testing.T) {
	rec := configSave()
	rec.Description = "cafe\u0301"
	got, err := Render("[event-log:description]", EventData(rec, model.Notice))
	if err != nil {
		t.Fatal(err)
	}
	if got != rec.Description {
		t.Fatalf("got %q, want the description bytes unchanged", got)
	}
}

func TestScan(t *testing.T) {
	tokens := Scan(defaultFormat)
	if len(tokens) != 8 {
		t.Fatalf("got %d tokens, want 8: %+v", len(tokens), tokens)
	}
	if tokens[0].Type != EventNamespace || tokens[0].Name != "type" {
		t.Errorf("first token = %+v", tokens[0])
	}
	if tokens[6].Name != "user:roles:join:," {
		t.Errorf("roles token name = %q", tokens[6].Name)
	}
}

func TestRender_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("rendered text never contains CR or LF", prop.ForAll(
		func(desc, path string) bool {
			rec := configSave()
			rec.Description = desc
			rec.Path = path
			got, _ := Render(defaultFormat+"\n", EventData(rec, model.Notice))
			return !strings.ContainsAny(got, "\r\n")
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("rendering is idempotent", prop.ForAll(
		func(op, desc string) bool {
			rec := configSave()
			rec.Operation = op
			rec.Description = desc
			a, errA := Render(defaultFormat, EventData(rec, model.Notice))
			b, errB := Render(defaultFormat, EventData(rec, model.Notice))
			return a == b && (errA == nil) == (errB == nil)
		},
		gen.AlphaString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
