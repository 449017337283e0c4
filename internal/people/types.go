package people

import (
	"fmt"
	"strconv"
	"strings"
)

// Person is a Google People API person record. Only the fields this server
// reads or writes are modeled; all repeated fields are optional and may be
// empty. Only the first element of each repeated field is interpreted.
type Person struct {
	ResourceName   string          `json:"resourceName,omitempty"`
	Etag           string          `json:"etag,omitempty"`
	Metadata       *PersonMetadata `json:"metadata,omitempty"`
	Names          []Name          `json:"names,omitempty"`
	EmailAddresses []Email         `json:"emailAddresses,omitempty"`
	PhoneNumbers   []Phone         `json:"phoneNumbers,omitempty"`
	Photos         []Photo         `json:"photos,omitempty"`
	Birthdays      []Birthday      `json:"birthdays,omitempty"`
	Organizations  []Organization  `json:"organizations,omitempty"`
	Biographies    []Biography     `json:"biographies,omitempty"`
}

// PersonMetadata carries the source metadata of a person record. The first
// source's etag is a fallback when the top-level etag is absent.
type PersonMetadata struct {
	Sources []Source `json:"sources,omitempty"`
}

// Source identifies where a person record originates from.
type Source struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id,omitempty"`
	Etag string `json:"etag,omitempty"`
}

// Name is a structured person name. Both halves are always serialized so
// that a merge can explicitly clear one half with an empty string.
type Name struct {
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
}

// Email is a single email address entry.
type Email struct {
	Value string `json:"value"`
}

// Phone is a single phone number entry.
type Phone struct {
	Value string `json:"value"`
}

// Photo is a single profile photo entry.
type Photo struct {
	URL     string `json:"url,omitempty"`
	Default bool   `json:"default,omitempty"`
}

// Birthday is a single birthday entry. The API may return a structured date,
// a free-form text representation, or both.
type Birthday struct {
	Date *Date  `json:"date,omitempty"`
	Text string `json:"text,omitempty"`
}

// Organization is a single organization entry.
type Organization struct {
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
}

// Biography is a single note/biography entry.
type Biography struct {
	Value string `json:"value"`
}

// Date is a calendar date. Year may be zero for partial dates such as a
// birthday where the year is unknown.
type Date struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// String renders the date as YYYY-MM-DD, or --MM-DD when the year is
// unknown. A date without month or day renders as the empty string.
func (d *Date) String() string {
	if d == nil || d.Month == 0 || d.Day == 0 {
		return ""
	}
	if d.Year != 0 {
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
	return fmt.Sprintf("--%02d-%02d", d.Month, d.Day)
}

// ParseBirthday parses an ISO-like birthday string. It accepts YYYY-MM-DD or
// --MM-DD (no year). The returned date has Year zero when the year was
// omitted.
func ParseBirthday(s string) (*Date, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "--"); ok {
		parts := strings.SplitN(rest, "-", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid birthday %q: expected --MM-DD", s)
		}
		month, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid birthday %q: %w", s, err)
		}
		day, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid birthday %q: %w", s, err)
		}
		return &Date{Month: month, Day: day}, nil
	}

	parts := strings.SplitN(s, "-", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid birthday %q: expected YYYY-MM-DD or --MM-DD", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid birthday %q: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid birthday %q: %w", s, err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("invalid birthday %q: %w", s, err)
	}
	return &Date{Year: year, Month: month, Day: day}, nil
}

// ContactFields carries the optional fields for creating or updating a
// contact. A nil pointer means the field was not supplied and is left
// untouched; an empty string is a deliberate value.
type ContactFields struct {
	GivenName  *string
	FamilyName *string
	Email      *string
	Phone      *string
	Birthday   *string // YYYY-MM-DD or --MM-DD
	PhotoURL   *string
	Note       *string
}

// StringPtr returns a pointer to s. Convenient for building ContactFields
// literals.
func StringPtr(s string) *string {
	return &s
}

// Empty reports whether no field was supplied at all.
func (f ContactFields) Empty() bool {
	return f.GivenName == nil && f.FamilyName == nil && f.Email == nil &&
		f.Phone == nil && f.Birthday == nil && f.PhotoURL == nil && f.Note == nil
}

// SearchResponse is a page of search results from people.searchContacts.
type SearchResponse struct {
	Results       []SearchResult `json:"results,omitempty"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
}

// SearchResult wraps one matched person.
type SearchResult struct {
	Person *Person `json:"person,omitempty"`
}

// connectionsPage is a page of the people/me connections listing.
type connectionsPage struct {
	Connections   []*Person `json:"connections,omitempty"`
	NextPageToken string    `json:"nextPageToken,omitempty"`
	TotalItems    int       `json:"totalItems,omitempty"`
}

// updateContactPhotoRequest is the body of people.updateContactPhoto.
type updateContactPhotoRequest struct {
	PhotoBytes string `json:"photoBytes"`
}

// updateContactPhotoResponse is the response of people.updateContactPhoto.
type updateContactPhotoResponse struct {
	Person *Person `json:"person,omitempty"`
}
