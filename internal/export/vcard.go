package export

import (
	"fmt"
	"strings"

	"github.com/teemow/contactstore/internal/people"
)

// VCardBytes renders the contact list as a vCard 3.0 document, one card per
// person. Lines use CRLF endings as required by the format. Photos are
// written as URI references, never embedded.
func VCardBytes(persons []*people.Person) []byte {
	var b strings.Builder
	for _, p := range persons {
		writeCard(&b, p)
	}
	return []byte(b.String())
}

func writeCard(b *strings.Builder, p *people.Person) {
	var given, family string
	if len(p.Names) > 0 {
		given = p.Names[0].GivenName
		family = p.Names[0].FamilyName
	}
	fn := strings.TrimSpace(given + " " + family)
	if fn == "" {
		fn = "Unnamed"
	}

	b.WriteString("BEGIN:VCARD\r\n")
	b.WriteString("VERSION:3.0\r\n")
	fmt.Fprintf(b, "N:%s;%s;;;\r\n", escapeVCard(family), escapeVCard(given))
	fmt.Fprintf(b, "FN:%s\r\n", escapeVCard(fn))
	for _, e := range p.EmailAddresses {
		if e.Value != "" {
			fmt.Fprintf(b, "EMAIL;TYPE=INTERNET:%s\r\n", escapeVCard(e.Value))
		}
	}
	for _, ph := range p.PhoneNumbers {
		if ph.Value != "" {
			fmt.Fprintf(b, "TEL;TYPE=CELL:%s\r\n", escapeVCard(ph.Value))
		}
	}
	if len(p.Organizations) > 0 {
		org := p.Organizations[0]
		if org.Name != "" {
			fmt.Fprintf(b, "ORG:%s\r\n", escapeVCard(org.Name))
		}
		if org.Title != "" {
			fmt.Fprintf(b, "TITLE:%s\r\n", escapeVCard(org.Title))
		}
	}
	if len(p.Birthdays) > 0 {
		if bday := p.Birthdays[0].Date.String(); bday != "" {
			fmt.Fprintf(b, "BDAY:%s\r\n", bday)
		}
	}
	if len(p.Photos) > 0 && p.Photos[0].URL != "" {
		fmt.Fprintf(b, "PHOTO;VALUE=URI:%s\r\n", p.Photos[0].URL)
	}
	b.WriteString("END:VCARD\r\n")
}

// escapeVCard escapes the characters vCard 3.0 reserves in property values.
func escapeVCard(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// unescapeVCard reverses escapeVCard.
func unescapeVCard(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n', 'N':
				b.WriteByte('\n')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// ParsedCard is one vCard mapped onto contact fields. Fields that could
// not be interpreted are left unset and reported in Warnings so a single
// bad property does not block the import of the card.
type ParsedCard struct {
	Fields   people.ContactFields
	Warnings []string
}

// ParseVCF splits a vCard document into cards and extracts the contact
// fields this server can import. Cards outside BEGIN:VCARD/END:VCARD
// markers are ignored.
func ParseVCF(text string) []ParsedCard {
	var cards []ParsedCard
	for _, lines := range splitCards(unfold(text)) {
		cards = append(cards, parseCard(lines))
	}
	return cards
}

// unfold joins vCard continuation lines (lines starting with a space or
// tab belong to the previous line) and normalizes line endings.
func unfold(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var lines []string
	for _, line := range raw {
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func splitCards(lines []string) [][]string {
	var cards [][]string
	var current []string
	inCard := false
	for _, line := range lines {
		upper := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case upper == "BEGIN:VCARD":
			inCard = true
			current = nil
		case upper == "END:VCARD":
			if inCard {
				cards = append(cards, current)
			}
			inCard = false
		case inCard:
			current = append(current, line)
		}
	}
	return cards
}

func parseCard(lines []string) ParsedCard {
	var card ParsedCard
	for _, line := range lines {
		name, value, ok := splitProperty(line)
		if !ok {
			continue
		}
		switch name {
		case "N":
			// family;given;additional;prefix;suffix
			parts := strings.Split(value, ";")
			if len(parts) > 0 && parts[0] != "" {
				card.Fields.FamilyName = people.StringPtr(unescapeVCard(parts[0]))
			}
			if len(parts) > 1 && parts[1] != "" {
				card.Fields.GivenName = people.StringPtr(unescapeVCard(parts[1]))
			}
		case "EMAIL":
			if card.Fields.Email == nil && value != "" {
				card.Fields.Email = people.StringPtr(unescapeVCard(value))
			}
		case "TEL":
			if card.Fields.Phone == nil && value != "" {
				card.Fields.Phone = people.StringPtr(unescapeVCard(value))
			}
		case "BDAY":
			if card.Fields.Birthday != nil || value == "" {
				continue
			}
			bday := normalizeBDay(value)
			if _, err := people.ParseBirthday(bday); err != nil {
				card.Warnings = append(card.Warnings, fmt.Sprintf("skipping unparseable BDAY %q", value))
				continue
			}
			card.Fields.Birthday = &bday
		case "PHOTO":
			if card.Fields.PhotoURL != nil || value == "" {
				continue
			}
			// Only URI photos import; embedded image data is skipped.
			lower := strings.ToLower(value)
			if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
				card.Fields.PhotoURL = people.StringPtr(value)
			} else {
				card.Warnings = append(card.Warnings, "skipping non-URI PHOTO")
			}
		case "NOTE":
			if card.Fields.Note == nil && value != "" {
				card.Fields.Note = people.StringPtr(unescapeVCard(value))
			}
		}
	}
	return card
}

// splitProperty splits "NAME;PARAM=X:value" into the bare property name
// and its raw value.
func splitProperty(line string) (name, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	name = strings.ToUpper(strings.TrimSpace(line[:idx]))
	if semi := strings.Index(name, ";"); semi >= 0 {
		name = name[:semi]
	}
	return name, line[idx+1:], true
}

// normalizeBDay converts the compact vCard date forms (19900615,
// --0615) into the dashed forms the People API layer accepts.
func normalizeBDay(value string) string {
	v := strings.TrimSpace(value)
	if len(v) == 8 && !strings.Contains(v, "-") {
		return v[:4] + "-" + v[4:6] + "-" + v[6:8]
	}
	if len(v) == 6 && strings.HasPrefix(v, "--") && !strings.Contains(v[2:], "-") {
		return "--" + v[2:4] + "-" + v[4:6]
	}
	return v
}
