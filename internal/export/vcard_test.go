package export

import (
	"strings"
	"testing"

	"github.com/teemow/contactstore/internal/people"
)

func TestVCardBytes(t *testing.T) {
	data := VCardBytes([]*people.Person{
		{
			Names:          []people.Name{{GivenName: "Jane", FamilyName: "Smith"}},
			EmailAddresses: []people.Email{{Value: "jane@example.com"}},
			PhoneNumbers:   []people.Phone{{Value: "+123"}},
			Organizations:  []people.Organization{{Name: "Acme; Inc", Title: "Engineer"}},
			Birthdays:      []people.Birthday{{Date: &people.Date{Month: 6, Day: 15}}},
			Photos:         []people.Photo{{URL: "https://img.example.com/jane"}},
		},
	})
	text := string(data)

	for _, want := range []string{
		"BEGIN:VCARD\r\n",
		"VERSION:3.0\r\n",
		"N:Smith;Jane;;;\r\n",
		"FN:Jane Smith\r\n",
		"EMAIL;TYPE=INTERNET:jane@example.com\r\n",
		"TEL;TYPE=CELL:+123\r\n",
		"ORG:Acme\\; Inc\r\n",
		"TITLE:Engineer\r\n",
		"BDAY:--06-15\r\n",
		"PHOTO;VALUE=URI:https://img.example.com/jane\r\n",
		"END:VCARD\r\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestVCardBytesUnnamed(t *testing.T) {
	text := string(VCardBytes([]*people.Person{{}}))
	if !strings.Contains(text, "FN:Unnamed\r\n") {
		t.Errorf("nameless contact should render FN:Unnamed:\n%s", text)
	}
}

func TestEscapeVCard(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"a;b", "a\\;b"},
		{"a,b", "a\\,b"},
		{"a\nb", "a\\nb"},
		{"a\\b", "a\\\\b"},
	}
	for _, tt := range tests {
		if got := escapeVCard(tt.input); got != tt.want {
			t.Errorf("escapeVCard(%q) = %q, want %q", tt.input, got, tt.want)
		}
		if back := unescapeVCard(escapeVCard(tt.input)); back != tt.input {
			t.Errorf("round trip of %q = %q", tt.input, back)
		}
	}
}

func TestParseVCF(t *testing.T) {
	text := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:Smith;Jane;;;",
		"FN:Jane Smith",
		"EMAIL;TYPE=INTERNET:jane@example.com",
		"EMAIL:jane@second.example",
		"TEL;TYPE=CELL:+123",
		"BDAY:1990-06-15",
		"PHOTO;VALUE=URI:https://img.example.com/jane",
		"NOTE:likes climbing",
		"END:VCARD",
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:;Solo;;;",
		"END:VCARD",
	}, "\r\n")

	cards := ParseVCF(text)
	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(cards))
	}

	first := cards[0].Fields
	if first.GivenName == nil || *first.GivenName != "Jane" {
		t.Errorf("GivenName = %v", first.GivenName)
	}
	if first.FamilyName == nil || *first.FamilyName != "Smith" {
		t.Errorf("FamilyName = %v", first.FamilyName)
	}
	// Only the first of repeated properties is imported.
	if first.Email == nil || *first.Email != "jane@example.com" {
		t.Errorf("Email = %v", first.Email)
	}
	if first.Phone == nil || *first.Phone != "+123" {
		t.Errorf("Phone = %v", first.Phone)
	}
	if first.Birthday == nil || *first.Birthday != "1990-06-15" {
		t.Errorf("Birthday = %v", first.Birthday)
	}
	if first.PhotoURL == nil || *first.PhotoURL != "https://img.example.com/jane" {
		t.Errorf("PhotoURL = %v", first.PhotoURL)
	}
	if first.Note == nil || *first.Note != "likes climbing" {
		t.Errorf("Note = %v", first.Note)
	}
	if len(cards[0].Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", cards[0].Warnings)
	}

	second := cards[1].Fields
	if second.GivenName == nil || *second.GivenName != "Solo" {
		t.Errorf("second GivenName = %v", second.GivenName)
	}
	if second.FamilyName != nil {
		t.Errorf("second FamilyName should be unset, got %q", *second.FamilyName)
	}
}

func TestParseVCFDegradation(t *testing.T) {
	text := strings.Join([]string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:Smith;Jane;;;",
		"BDAY:June 15th 1990",
		"PHOTO;ENCODING=b;TYPE=JPEG:AAAABBBBCCCC",
		"END:VCARD",
	}, "\r\n")

	cards := ParseVCF(text)
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
	card := cards[0]

	// The malformed birthday and embedded photo degrade to warnings; the
	// rest of the card stays importable.
	if card.Fields.Birthday != nil {
		t.Errorf("Birthday should be unset, got %q", *card.Fields.Birthday)
	}
	if card.Fields.PhotoURL != nil {
		t.Errorf("PhotoURL should be unset, got %q", *card.Fields.PhotoURL)
	}
	if len(card.Warnings) != 2 {
		t.Errorf("warnings = %v, want 2 entries", card.Warnings)
	}
	if card.Fields.GivenName == nil || *card.Fields.GivenName != "Jane" {
		t.Errorf("GivenName = %v", card.Fields.GivenName)
	}
}

func TestParseVCFCompactDates(t *testing.T) {
	tests := []struct {
		bday string
		want string
	}{
		{"19900615", "1990-06-15"},
		{"--0615", "--06-15"},
		{"1990-06-15", "1990-06-15"},
	}
	for _, tt := range tests {
		text := "BEGIN:VCARD\r\nVERSION:3.0\r\nBDAY:" + tt.bday + "\r\nEND:VCARD\r\n"
		cards := ParseVCF(text)
		if len(cards) != 1 {
			t.Fatalf("BDAY %q: got %d cards", tt.bday, len(cards))
		}
		got := cards[0].Fields.Birthday
		if got == nil || *got != tt.want {
			t.Errorf("BDAY %q parsed as %v, want %q", tt.bday, got, tt.want)
		}
	}
}

func TestParseVCFFoldedLines(t *testing.T) {
	text := "BEGIN:VCARD\r\nVERSION:3.0\r\nNOTE:first part\r\n  and the rest\r\nEND:VCARD\r\n"
	cards := ParseVCF(text)
	if len(cards) != 1 {
		t.Fatalf("got %d cards", len(cards))
	}
	note := cards[0].Fields.Note
	if note == nil || *note != "first part and the rest" {
		t.Errorf("Note = %v, want folded line joined", note)
	}
}

func TestParseVCFIgnoresStrayLines(t *testing.T) {
	text := "junk before\r\nBEGIN:VCARD\r\nN:Doe;John;;;\r\nEND:VCARD\r\ntrailing junk"
	cards := ParseVCF(text)
	if len(cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(cards))
	}
}

func TestVCFRoundTrip(t *testing.T) {
	persons := []*people.Person{
		{
			Names:          []people.Name{{GivenName: "Jane", FamilyName: "Smith"}},
			EmailAddresses: []people.Email{{Value: "jane@example.com"}},
			Birthdays:      []people.Birthday{{Date: &people.Date{Year: 1990, Month: 6, Day: 15}}},
		},
	}
	cards := ParseVCF(string(VCardBytes(persons)))
	if len(cards) != 1 {
		t.Fatalf("got %d cards", len(cards))
	}
	fields := cards[0].Fields
	if fields.GivenName == nil || *fields.GivenName != "Jane" ||
		fields.FamilyName == nil || *fields.FamilyName != "Smith" {
		t.Errorf("name did not round trip: %+v", fields)
	}
	if fields.Birthday == nil || *fields.Birthday != "1990-06-15" {
		t.Errorf("birthday did not round trip: %v", fields.Birthday)
	}
}
