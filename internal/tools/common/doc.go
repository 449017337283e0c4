// Package common holds helpers shared by the tool packages: argument
// extraction from MCP requests and the instrumentation wrapper that
// records metrics for every tool call.
package common
