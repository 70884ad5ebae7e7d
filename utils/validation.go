package utils

import (
	"fmt"
	"unicode/utf8"
)

// Folder validation
func ValidateFolderName(name string) error {
	if name == "" {
		return fmt.Errorf("folder name cannot be empty")
	}

	if len(name) > 255 {
		return fmt.Errorf("folder name too long (max 255 characters)")
	}

	if !utf8.ValidString(name) {
		return fmt.Errorf("folder name contains invalid UTF-8 characters")
	}

	return nil
}

// Note key validation. Keys address one slot inside a folder's note list, so
// they follow the same length and encoding limits as folder names.
func ValidateNoteKey(key string) error {
	if key == "" {
		return fmt.Errorf("note key cannot be empty")
	}

	if len(key) > 255 {
		return fmt.Errorf("note key too long (max 255 characters)")
	}

	if !utf8.ValidString(key) {
		return fmt.Errorf("note key contains invalid UTF-8 characters")
	}

	return nil
}
