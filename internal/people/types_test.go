package people

import "testing"

func TestParseBirthday(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{
			name:  "full date",
			input: "1990-06-15",
			want:  Date{Year: 1990, Month: 6, Day: 15},
		},
		{
			name:  "yearless date",
			input: "--06-15",
			want:  Date{Month: 6, Day: 15},
		},
		{
			name:  "surrounding whitespace",
			input: "  1990-06-15 ",
			want:  Date{Year: 1990, Month: 6, Day: 15},
		},
		{
			name:    "garbage",
			input:   "not-a-date",
			wantErr: true,
		},
		{
			name:    "missing day",
			input:   "1990-06",
			wantErr: true,
		},
		{
			name:    "yearless missing day",
			input:   "--06",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBirthday(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseBirthday(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBirthday(%q) unexpected error: %v", tt.input, err)
			}
			if *got != tt.want {
				t.Errorf("ParseBirthday(%q) = %+v, want %+v", tt.input, *got, tt.want)
			}
		})
	}
}

func TestDateString(t *testing.T) {
	tests := []struct {
		name string
		date *Date
		want string
	}{
		{
			name: "full date",
			date: &Date{Year: 1990, Month: 6, Day: 15},
			want: "1990-06-15",
		},
		{
			name: "yearless date",
			date: &Date{Month: 6, Day: 5},
			want: "--06-05",
		},
		{
			name: "no month",
			date: &Date{Year: 1990},
			want: "",
		},
		{
			name: "nil date",
			date: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.date.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBirthdayRoundTrip(t *testing.T) {
	for _, input := range []string{"1990-06-15", "--12-01"} {
		date, err := ParseBirthday(input)
		if err != nil {
			t.Fatalf("ParseBirthday(%q) unexpected error: %v", input, err)
		}
		if got := date.String(); got != input {
			t.Errorf("round trip of %q = %q", input, got)
		}
	}
}

func TestContactFieldsEmpty(t *testing.T) {
	if !(ContactFields{}).Empty() {
		t.Error("zero ContactFields should be empty")
	}

	empty := ""
	if (ContactFields{Email: &empty}).Empty() {
		t.Error("ContactFields with explicit empty email should not count as empty")
	}
}

func TestEffectiveEtag(t *testing.T) {
	tests := []struct {
		name   string
		person Person
		want   string
	}{
		{
			name:   "top-level etag",
			person: Person{Etag: "abc"},
			want:   "abc",
		},
		{
			name: "metadata fallback",
			person: Person{Metadata: &PersonMetadata{
				Sources: []Source{{Type: "CONTACT", Etag: "xyz"}},
			}},
			want: "xyz",
		},
		{
			name: "top-level wins over metadata",
			person: Person{
				Etag:     "abc",
				Metadata: &PersonMetadata{Sources: []Source{{Etag: "xyz"}}},
			},
			want: "abc",
		},
		{
			name:   "no etag anywhere",
			person: Person{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.person.EffectiveEtag(); got != tt.want {
				t.Errorf("EffectiveEtag() = %q, want %q", got, tt.want)
			}
		})
	}
}
