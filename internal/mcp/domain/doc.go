// Package domain defines the MCP tools that record observations in a
// notebook and report what has been deduced.
//
// Every mutating tool returns the full derived state so a client never has
// to follow up with alchemy_state.
package domain
