package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// MinPythonMinor is the lowest python3 minor version seeded projects may
// declare as their minimum supported version.
const MinPythonMinor = 9

// Validator checks a raw string value. A nil return means the value is
// valid; otherwise the error carries a short user-facing message.
type Validator func(string) error

var pythonVersionPattern = regexp.MustCompile(`^3(\.[0-9]+){1,2}$`)

// ValidateNonEmpty rejects empty strings.
func ValidateNonEmpty(s string) error {
	if s == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

// ValidatePythonVersion accepts dotted python3 versions with two or three
// components whose minor version is at least MinPythonMinor.
func ValidatePythonVersion(s string) error {
	if !pythonVersionPattern.MatchString(s) {
		return errors.New("not a valid python3 version")
	}
	minor, err := strconv.Atoi(strings.Split(s, ".")[1])
	if err != nil {
		return errors.New("not a valid python3 version")
	}
	if minor < MinPythonMinor {
		return fmt.Errorf("can only create projects supporting python 3.%d+", MinPythonMinor)
	}
	return nil
}

// ValidateURL accepts absolute http(s) URLs with a host component.
// The docs site config needs urls starting with 'http[s]://'.
func ValidateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("url must start with 'http[s]://'")
	}
	return nil
}
