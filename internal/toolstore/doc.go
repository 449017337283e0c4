// Package toolstore provides a client for the Tool Store Developer API.
//
// The Tool Store host runs this server on behalf of a user and injects the
// user's session into the environment. This package covers the three API
// surfaces the server needs:
//   - Tool user data: the per-user JSON document where OAuth tokens live
//   - OAuth token lifecycle: returning a valid access token for a provider,
//     refreshing it through the token endpoint when it is about to expire
//   - File storage: presigned-URL uploads and download URL generation
//
// # Configuration
//
// All configuration comes from environment variables (see ConfigFromEnv):
//
//	TOOLSTORE_API_BASE              Developer API base URL
//	TOOLSTORE_JWT                   Firebase JWT for the user session
//	TOOLSTORE_DEV_SLUG              Developer namespace
//	TOOLSTORE_TOOL_SLUG             Tool namespace
//	TOOLSTORE_USER_ID               Current user ID
//	TOOLSTORE_USER_SLUG             Current user slug
//	TOOLSTORE_OAUTH_TOKEN_ENDPOINT  Refresh endpoint (optional)
//
// Missing identity variables only fail the operations that need them, so
// the server starts and lists its tools even in an unconfigured
// environment.
//
// # Token lifecycle
//
// AccessToken reads the stored token for a provider and checks its expiry
// with a 15 second safety margin. Expired tokens are refreshed through the
// token endpoint and written back to user data; the write-back is
// best-effort, and concurrent refreshes follow last-write-wins since every
// refreshed token is independently valid.
package toolstore
