// Package people provides a client for the Google People API (v1), scoped
// to the authenticated user's contacts.
//
// This package talks to the REST endpoints directly and provides
// functionality for:
//   - Searching contacts with cursor-based pagination
//   - Fetching, creating, updating and deleting individual contacts
//   - Walking the complete people/me connections listing page by page
//   - Assigning contact photos from an external image URL
//
// # Authentication
//
// The client is constructed with a short-lived OAuth access token obtained
// elsewhere (see the toolstore package). Because tokens expire, callers
// create a fresh client per operation rather than holding one long-term.
//
// # Field handling
//
// Writes go through ContactFields, where a nil pointer means "leave this
// field alone" and an empty string is a deliberate value. Update requests
// carry only the masks for the supplied fields, and a partial name change
// is merged with the current record so the untouched half survives.
//
// # Example Usage
//
//	client := people.NewClient(ctx, accessToken)
//
//	page, err := client.SearchContacts(ctx, "smith", 30, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	email := "jane@example.com"
//	result, err := client.CreateContact(ctx, people.ContactFields{
//	    GivenName: people.StringPtr("Jane"),
//	    Email:     &email,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result.PhotoWarning != "" {
//	    log.Println(result.PhotoWarning)
//	}
package people
