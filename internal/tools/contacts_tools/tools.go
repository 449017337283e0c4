package contacts_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/contactstore/internal/people"
	"github.com/teemow/contactstore/internal/server"
	"github.com/teemow/contactstore/internal/tools/common"
)

const defaultSearchPageSize = 50

// listPageSize is the page size used when walking the full contact list.
const listPageSize = 500

// RegisterContactsTools registers all contact management tools with the MCP
// server. Write tools (create, update, delete) are only registered when
// readOnly is false.
func RegisterContactsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerReadTools(s, sc)
	if !readOnly {
		registerWriteTools(s, sc)
	}
	return nil
}

// contactFieldsFromArgs maps the shared optional tool arguments onto
// ContactFields.
func contactFieldsFromArgs(args map[string]interface{}) people.ContactFields {
	return people.ContactFields{
		GivenName:  common.OptString(args, "givenName"),
		FamilyName: common.OptString(args, "familyName"),
		Email:      common.OptString(args, "email"),
		Phone:      common.OptString(args, "phone"),
		Birthday:   common.OptString(args, "birthday"),
		PhotoURL:   common.OptString(args, "photoUrl"),
		Note:       common.OptString(args, "note"),
	}
}

func jsonResult(v interface{}) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}

func registerReadTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	searchTool := mcp.NewTool("search_contacts",
		mcp.WithDescription("Search contacts by text query over names, emails, and phone numbers. Returns one page of matches plus a nextPageToken when more are available."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text search query"),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Number of results per page, 1-200 (default: 50)"),
		),
		mcp.WithString("pageToken",
			mcp.Description("Token from a previous response to fetch the next page"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedToolHandler("search_contacts", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		query, ok := common.StringArg(args, "query")
		if !ok {
			return mcp.NewToolResultError("query is required"), nil
		}
		pageSize := common.IntArg(args, "pageSize", defaultSearchPageSize)
		pageToken, _ := common.StringArg(args, "pageToken")

		client, err := sc.PeopleClient(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := client.SearchContacts(ctx, query, pageSize, pageToken)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search contacts: %v", err)), nil
		}
		return jsonResult(data), nil
	}))

	getTool := mcp.NewTool("get_contact_details",
		mcp.WithDescription("Get full details for the specified contact resource name"),
		mcp.WithString("resourceName",
			mcp.Required(),
			mcp.Description("Contact resource name, e.g. people/c123456789"),
		),
	)

	s.AddTool(getTool, common.InstrumentedToolHandler("get_contact_details", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		resourceName, ok := common.StringArg(args, "resourceName")
		if !ok {
			return mcp.NewToolResultError("resourceName is required"), nil
		}

		client, err := sc.PeopleClient(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		person, err := client.GetContact(ctx, resourceName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get contact: %v", err)), nil
		}
		return jsonResult(person), nil
	}))

	birthdaysTool := mcp.NewTool("get_todays_birthdays",
		mcp.WithDescription("Return all contacts whose birthday (month and day) is today, in UTC"),
	)

	s.AddTool(birthdaysTool, common.InstrumentedToolHandler("get_todays_birthdays", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		client, err := sc.PeopleClient(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		today := time.Now().UTC()
		matches := []*people.Person{}
		err = client.ListAllConnections(ctx, listPageSize, func(p *people.Person) error {
			if matchesBirthday(p, int(today.Month()), today.Day()) {
				matches = append(matches, p)
			}
			return nil
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list contacts: %v", err)), nil
		}

		return jsonResult(map[string]interface{}{
			"count":  len(matches),
			"people": matches,
		}), nil
	}))
}

// matchesBirthday reports whether the person's first birthday entry falls
// on the given month and day.
func matchesBirthday(p *people.Person, month, day int) bool {
	if len(p.Birthdays) == 0 {
		return false
	}
	date := p.Birthdays[0].Date
	if date == nil {
		return false
	}
	return date.Month == month && date.Day == day
}

// createResponse is the JSON payload of a successful create_contact call.
type createResponse struct {
	Person       *people.Person `json:"person"`
	PhotoWarning string         `json:"photoWarning,omitempty"`
}

func registerWriteTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	fieldOpts := func() []mcp.ToolOption {
		return []mcp.ToolOption{
			mcp.WithString("givenName", mcp.Description("Given (first) name")),
			mcp.WithString("familyName", mcp.Description("Family (last) name")),
			mcp.WithString("email", mcp.Description("Email address")),
			mcp.WithString("phone", mcp.Description("Phone number")),
			mcp.WithString("birthday", mcp.Description("Birthday as YYYY-MM-DD, or --MM-DD when the year is unknown")),
			mcp.WithString("photoUrl", mcp.Description("Publicly accessible URL of a profile photo")),
			mcp.WithString("note", mcp.Description("Free-text note")),
		}
	}

	createOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Create a new contact. All fields are optional; a photo URL is assigned after creation and reported as a warning if it fails."),
	}, fieldOpts()...)
	createTool := mcp.NewTool("create_contact", createOpts...)

	s.AddTool(createTool, common.InstrumentedToolHandler("create_contact", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		client, err := sc.PeopleClient(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := client.CreateContact(ctx, contactFieldsFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create contact: %v", err)), nil
		}
		return jsonResult(createResponse{
			Person:       result.Person,
			PhotoWarning: result.PhotoWarning,
		}), nil
	}))

	updateOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Update selected fields of a contact. Fields not provided are left unchanged; an empty string clears a field."),
		mcp.WithString("resourceName",
			mcp.Required(),
			mcp.Description("Contact resource name, e.g. people/c123456789"),
		),
	}, fieldOpts()...)
	updateTool := mcp.NewTool("update_contact", updateOpts...)

	s.AddTool(updateTool, common.InstrumentedToolHandler("update_contact", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		resourceName, ok := common.StringArg(args, "resourceName")
		if !ok {
			return mcp.NewToolResultError("resourceName is required"), nil
		}

		client, err := sc.PeopleClient(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		updated, err := client.UpdateContact(ctx, resourceName, contactFieldsFromArgs(args))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update contact: %v", err)), nil
		}
		return jsonResult(updated), nil
	}))

	deleteTool := mcp.NewTool("delete_contact",
		mcp.WithDescription("Permanently delete a contact by resource name"),
		mcp.WithString("resourceName",
			mcp.Required(),
			mcp.Description("Contact resource name, e.g. people/c123456789"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandler("delete_contact", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		resourceName, ok := common.StringArg(args, "resourceName")
		if !ok {
			return mcp.NewToolResultError("resourceName is required"), nil
		}

		client, err := sc.PeopleClient(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if err := client.DeleteContact(ctx, resourceName); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete contact: %v", err)), nil
		}
		return jsonResult(map[string]string{
			"status":       "deleted",
			"resourceName": resourceName,
		}), nil
	}))
}
