package middleware

import (
	"errors"
	"unicode/utf8"
)

// ValidateMessageContent validates chat message content.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("content cannot be empty")
	}
	if len(content) > 100000 { // ~100KB limit
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateConversationID validates a backend-assigned conversation ID.
// The identifier is opaque; only shape constraints apply.
func ValidateConversationID(id string) error {
	if len(id) == 0 {
		return errors.New("conversation ID cannot be empty")
	}
	if len(id) > 128 {
		return errors.New("conversation ID exceeds maximum length")
	}
	if !utf8.ValidString(id) {
		return errors.New("conversation ID must be valid UTF-8")
	}
	return nil
}

// ValidateTargetRole validates a roadmap target role.
func ValidateTargetRole(role string) error {
	if len(role) == 0 {
		return errors.New("target role cannot be empty")
	}
	if len(role) > 256 {
		return errors.New("target role exceeds maximum length")
	}
	if !utf8.ValidString(role) {
		return errors.New("target role must be valid UTF-8")
	}
	return nil
}

// ValidateResumeText validates resume text for analysis.
func ValidateResumeText(text string) error {
	if len(text) == 0 {
		return errors.New("resume text cannot be empty")
	}
	if len(text) > 500000 {
		return errors.New("resume text exceeds maximum length")
	}
	return nil
}
