package transfer_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/contactstore/internal/export"
	"github.com/teemow/contactstore/internal/people"
	"github.com/teemow/contactstore/internal/server"
	"github.com/teemow/contactstore/internal/tools/common"
)

const (
	defaultCSVFileName = "contacts-export.csv"
	defaultVCFFileName = "contacts-export.vcf"

	// listPageSize is the page size used when walking the full contact list.
	listPageSize = 500

	downloadTimeout = 60 * time.Second
)

// RegisterTransferTools registers the bulk export and import tools.
// Importing creates contacts and is only registered when readOnly is
// false; the export tools only read contacts and are always available.
func RegisterTransferTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	registerExportTools(s, sc)
	if !readOnly {
		registerImportTool(s, sc)
	}
	return nil
}

func jsonResult(v interface{}) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}

// collectAll walks the complete contact list into memory. Exports need the
// full list before serializing.
func collectAll(ctx context.Context, client *people.Client) ([]*people.Person, error) {
	var persons []*people.Person
	err := client.ListAllConnections(ctx, listPageSize, func(p *people.Person) error {
		persons = append(persons, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return persons, nil
}

func registerExportTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	csvTool := mcp.NewTool("export_contacts",
		mcp.WithDescription("Export all contacts to a CSV file and upload it to Tool Store storage. Returns the storage metadata."),
		mcp.WithString("fileName",
			mcp.Description("Target file name (default: contacts-export.csv)"),
		),
	)

	s.AddTool(csvTool, common.InstrumentedToolHandler("export_contacts", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		client, err := sc.PeopleClient(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		persons, err := collectAll(ctx, client)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list contacts: %v", err)), nil
		}

		data, err := export.CSVBytes(persons)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to build CSV: %v", err)), nil
		}

		fileName, ok := common.StringArg(args, "fileName")
		if !ok {
			fileName = defaultCSVFileName
		}
		info, err := sc.Store().UploadFile(ctx, fileName, data, "text/csv")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to upload export: %v", err)), nil
		}
		return jsonResult(info), nil
	}))

	vcfTool := mcp.NewTool("export_contacts_vcf",
		mcp.WithDescription("Export all contacts to a vCard 3.0 file and upload it to Tool Store storage. Returns the storage metadata."),
		mcp.WithString("fileName",
			mcp.Description("Target file name (default: contacts-export.vcf)"),
		),
	)

	s.AddTool(vcfTool, common.InstrumentedToolHandler("export_contacts_vcf", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		client, err := sc.PeopleClient(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		persons, err := collectAll(ctx, client)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list contacts: %v", err)), nil
		}

		fileName, ok := common.StringArg(args, "fileName")
		if !ok {
			fileName = defaultVCFFileName
		}
		info, err := sc.Store().UploadFile(ctx, fileName, export.VCardBytes(persons), "text/vcard")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to upload export: %v", err)), nil
		}
		return jsonResult(info), nil
	}))
}

// importResponse is the JSON payload of a completed import.
type importResponse struct {
	Created       int      `json:"created"`
	ResourceNames []string `json:"resourceNames"`
	Warnings      []string `json:"warnings,omitempty"`
}

func registerImportTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	importTool := mcp.NewTool("import_contacts_vcf",
		mcp.WithDescription("Import contacts from a vCard file. Provide exactly one of fileUrl or storageFileName. Each card becomes a new contact; import stops at the first create failure."),
		mcp.WithString("fileUrl",
			mcp.Description("Publicly accessible URL of a .vcf file"),
		),
		mcp.WithString("storageFileName",
			mcp.Description("File name in Tool Store storage for the current user"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of cards to import (useful for testing)"),
		),
	)

	s.AddTool(importTool, common.InstrumentedToolHandler("import_contacts_vcf", sc, importContactsHandler(sc)))
}

func importContactsHandler(sc *server.ServerContext) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		fileURL, hasURL := common.StringArg(args, "fileUrl")
		storageFileName, hasStorage := common.StringArg(args, "storageFileName")
		if hasURL == hasStorage {
			return mcp.NewToolResultError("Provide exactly one of fileUrl or storageFileName"), nil
		}
		limit := common.IntArg(args, "limit", -1)

		if hasStorage {
			resolved, err := sc.Store().DownloadURL(ctx, storageFileName)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve download URL: %v", err)), nil
			}
			if resolved == "" {
				return mcp.NewToolResultError("Could not resolve download URL for storageFileName"), nil
			}
			fileURL = resolved
		}

		text, err := downloadText(ctx, fileURL)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to download file: %v", err)), nil
		}

		client, err := sc.PeopleClient(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		resp := importResponse{ResourceNames: []string{}}
		for i, card := range export.ParseVCF(text) {
			if limit >= 0 && int64(i) >= limit {
				break
			}
			for _, w := range card.Warnings {
				resp.Warnings = append(resp.Warnings, fmt.Sprintf("card %d: %s", i+1, w))
			}
			result, err := client.CreateContact(ctx, card.Fields)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf(
					"Import aborted at card %d after creating %d contacts: %v", i+1, resp.Created, err)), nil
			}
			if result.PhotoWarning != "" {
				resp.Warnings = append(resp.Warnings, fmt.Sprintf("card %d: %s", i+1, result.PhotoWarning))
			}
			if rn := result.Person.ResourceName; rn != "" {
				resp.ResourceNames = append(resp.ResourceNames, rn)
				resp.Created++
			}
		}
		return jsonResult(resp), nil
	}
}

// downloadText fetches a text file, decoding it as UTF-8 with a Latin-1
// fallback for legacy vCard exports.
func downloadText(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	// Latin-1: every byte maps directly onto the same code point.
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes), nil
}
