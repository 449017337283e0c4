package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/contactstore/internal/people"
)

func TestCSVRow(t *testing.T) {
	p := &people.Person{
		ResourceName: "people/c1",
		Names:        []people.Name{{GivenName: "Jane", FamilyName: "Smith"}},
		EmailAddresses: []people.Email{
			{Value: "jane@example.com"},
			{Value: "jane@work.example"},
		},
		PhoneNumbers:  []people.Phone{{Value: "+123"}, {Value: "+456"}},
		Organizations: []people.Organization{{Name: "Acme", Title: "Engineer"}},
		Birthdays:     []people.Birthday{{Date: &people.Date{Year: 1990, Month: 6, Day: 15}}},
		Photos:        []people.Photo{{URL: "https://img.example.com/jane"}},
		Biographies:   []people.Biography{{Value: "likes climbing"}},
	}

	assert.Equal(t, []string{
		"Jane", "Smith",
		"jane@example.com;jane@work.example",
		"+123;+456",
		"Acme", "Engineer",
		"1990-06-15",
		"https://img.example.com/jane",
		"people/c1",
		"likes climbing",
	}, CSVRow(p))
}

func TestCSVRowEmptyPerson(t *testing.T) {
	row := CSVRow(&people.Person{ResourceName: "people/c2"})
	require.Len(t, row, len(csvHeader))
	for i, col := range row {
		if csvHeader[i] == "resource_name" {
			assert.Equal(t, "people/c2", col)
			continue
		}
		assert.Empty(t, col, "column %s", csvHeader[i])
	}
}

func TestCSVBytes(t *testing.T) {
	data, err := CSVBytes([]*people.Person{
		{
			ResourceName: "people/c1",
			Names:        []people.Name{{GivenName: "Jane"}},
			Biographies:  []people.Biography{{Value: "line one\nline two, with comma"}},
		},
	})
	require.NoError(t, err)

	// The output must round-trip through a standard CSV reader.
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err, "generated CSV does not parse")
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "line one\nline two, with comma", records[1][9])
}
