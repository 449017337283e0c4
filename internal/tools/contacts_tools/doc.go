// Package contacts_tools registers the contact management MCP tools:
//
//   - search_contacts: paginated free-text search
//   - get_contact_details: fetch one contact by resource name
//   - get_todays_birthdays: contacts whose birthday is today (UTC)
//   - create_contact: create a contact with optional fields and photo
//   - update_contact: partial update, unspecified fields stay untouched
//   - delete_contact: permanent deletion
//
// The write tools are only registered when the server runs with writes
// enabled (--yolo). Every handler resolves a fresh People API client so
// the access token is always current.
package contacts_tools
