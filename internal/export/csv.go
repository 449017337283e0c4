package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/teemow/contactstore/internal/people"
)

// csvHeader is the stable column set of a contacts export. Changing order
// or names breaks downstream consumers of previously exported files.
var csvHeader = []string{
	"given_name",
	"family_name",
	"emails",
	"phones",
	"organization",
	"title",
	"birthday",
	"photo_url",
	"resource_name",
	"notes",
}

// CSVRow projects a person record onto the export columns. Multi-valued
// fields (emails, phones) are joined with semicolons; all other repeated
// fields take their first entry.
func CSVRow(p *people.Person) []string {
	var given, family string
	if len(p.Names) > 0 {
		given = p.Names[0].GivenName
		family = p.Names[0].FamilyName
	}

	emails := make([]string, 0, len(p.EmailAddresses))
	for _, e := range p.EmailAddresses {
		emails = append(emails, e.Value)
	}
	phones := make([]string, 0, len(p.PhoneNumbers))
	for _, ph := range p.PhoneNumbers {
		phones = append(phones, ph.Value)
	}

	var orgName, orgTitle string
	if len(p.Organizations) > 0 {
		orgName = p.Organizations[0].Name
		orgTitle = p.Organizations[0].Title
	}

	var birthday string
	if len(p.Birthdays) > 0 {
		birthday = p.Birthdays[0].Date.String()
	}

	var photoURL string
	if len(p.Photos) > 0 {
		photoURL = p.Photos[0].URL
	}

	var notes string
	if len(p.Biographies) > 0 {
		notes = p.Biographies[0].Value
	}

	return []string{
		given,
		family,
		strings.Join(emails, ";"),
		strings.Join(phones, ";"),
		orgName,
		orgTitle,
		birthday,
		photoURL,
		p.ResourceName,
		notes,
	}
}

// CSVBytes renders the full contact list as a UTF-8 CSV document with a
// header row.
func CSVBytes(persons []*people.Person) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range persons {
		if err := w.Write(CSVRow(p)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row for %s: %w", p.ResourceName, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
