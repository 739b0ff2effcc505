package web

// messages.go maps technical errors to user-friendly messages with codes
// for support reference. Patterns are matched case-insensitively with
// strings.Contains; the first match wins, so specific patterns come
// before general ones.

import "strings"

// UserMessage is a user-facing rendering of an error.
type UserMessage struct {
	Message string // what happened
	Action  string // what to do about it
	Code    string // short code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File and format errors (FMT)
	{
		pattern: "unrecognized csv format",
		msg: UserMessage{
			Message: "This file does not look like a supported time-tracking export",
			Action:  "Export your data as CSV from your time tracker and try again",
			Code:    "FMT001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a CSV file to upload",
			Code:    "FMT002",
		},
	},
	{
		pattern: "too large",
		msg: UserMessage{
			Message: "The file exceeds the maximum upload size",
			Action:  "Split the export into smaller date ranges",
			Code:    "FMT003",
		},
	},

	// Preview lifecycle errors (PRV)
	{
		pattern: "preview not found",
		msg: UserMessage{
			Message: "This preview has expired or was already committed",
			Action:  "Upload the file again to generate a new preview",
			Code:    "PRV001",
		},
	},

	// Entity store errors (STO)
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "The entity store is unreachable",
			Action:  "Check your connection and try again in a few moments",
			Code:    "STO001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The entity store took too long to respond",
			Action:  "Try again later",
			Code:    "STO002",
		},
	},
	{
		pattern: "status 401",
		msg: UserMessage{
			Message: "The entity store rejected the API token",
			Action:  "Check the configured store credentials",
			Code:    "STO003",
		},
	},
	{
		pattern: "status 403",
		msg: UserMessage{
			Message: "The entity store rejected the API token",
			Action:  "Check the configured store credentials",
			Code:    "STO003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Try again",
			Code:    "STO004",
		},
	},
}

// mapError converts a technical error into a user-facing message. Errors
// matching no known pattern get a generic message so internals never leak
// to clients; ok reports whether a specific pattern matched.
func mapError(err error) (UserMessage, bool) {
	if err == nil {
		return UserMessage{}, false
	}

	lower := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(lower, ep.pattern) {
			return ep.msg, true
		}
	}
	return UserMessage{
		Message: "Something went wrong processing your request",
		Action:  "Try again, and contact support if the problem persists",
		Code:    "GEN001",
	}, false
}
