package util

import (
	"fmt"
	"regexp"
	"strings"
)

// regionPattern matches AWS-style region names such as us-east-2 or
// us-gov-west-1.
var regionPattern = regexp.MustCompile(`^[a-z]{2}(-gov|-iso[a-z]?)?-[a-z]+-[0-9]+$`)

// ValidateRegion checks that a region name is well formed.
func ValidateRegion(region string) error {
	if region == "" {
		return fmt.Errorf("region cannot be empty")
	}
	if !regionPattern.MatchString(region) {
		return fmt.Errorf("region %q is not a valid region name (expected e.g. us-east-2)", region)
	}
	return nil
}

// ValidateTagKey checks that an ownership tag key is usable:
//   - Non-empty and at most 128 characters
//   - Must not use the reserved "aws:" prefix
func ValidateTagKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("tag key cannot be empty")
	}
	if len(key) > 128 {
		return fmt.Errorf("tag key must be at most 128 characters, got %d", len(key))
	}
	if strings.HasPrefix(strings.ToLower(key), "aws:") {
		return fmt.Errorf("tag key %q uses the reserved aws: prefix", key)
	}
	return nil
}
