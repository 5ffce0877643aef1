// Package core holds the registration form logic.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Field-level validation problems never come through here; they
// are returned as an [ErrorMap] and shown next to the inputs. The codes below
// cover everything else the form can run into.
//
// # Record Errors (VAL001, IDX001)
//
//	VAL001 - Invalid record: One or more fields need attention
//	         Action: Correct the highlighted fields and submit again
//	         Patterns: "invalid record"
//
//	IDX001 - Record not found: The record is no longer in the list
//	         Action: Reload the page to see the current list
//	         Patterns: "record index out of range", "invalid record index"
//
// # Session Errors (SES001-SES002)
//
//	SES001 - Session expired: The form session was not found
//	         Action: Reload the page to start a new form
//	         Patterns: "session not found"
//
//	SES002 - System busy: Too many open forms
//	         Action: Please wait a moment and try again
//	         Patterns: "too many sessions"
//
// # Request Errors (REQ001-REQ003)
//
//	REQ001 - Malformed request: The request could not be read
//	         Action: Check the request body and try again
//	         Patterns: "malformed request"
//
//	REQ002 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ003 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check application logs for the
// original technical error.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns go before general ones.
package core

import "strings"

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Record Errors
	// =========================================================================
	{
		pattern: "invalid record index",
		msg: UserMessage{
			Message: "Record not found",
			Action:  "Reload the page to see the current list",
			Code:    "IDX001",
		},
	},
	{
		pattern: "invalid record",
		msg: UserMessage{
			Message: "One or more fields need attention",
			Action:  "Correct the highlighted fields and submit again",
			Code:    "VAL001",
		},
	},
	{
		pattern: "record index out of range",
		msg: UserMessage{
			Message: "Record not found",
			Action:  "Reload the page to see the current list",
			Code:    "IDX001",
		},
	},

	// =========================================================================
	// Session Errors
	// =========================================================================
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Your form session has expired",
			Action:  "Reload the page to start a new form",
			Code:    "SES001",
		},
	},
	{
		pattern: "too many sessions",
		msg: UserMessage{
			Message: "Too many open forms",
			Action:  "Please wait a moment and try again",
			Code:    "SES002",
		},
	},

	// =========================================================================
	// Request Errors
	// =========================================================================
	{
		pattern: "malformed request",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the request body and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ003",
		},
	},

	// =========================================================================
	// Rate Limiting
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
