package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/sdprov/internal/util/netutil"
)

// ConnectionPath is a validated host:/path pair.
type ConnectionPath struct {
	Address string
	Path    string
}

// String renders the pair back to host:/path form.
func (c ConnectionPath) String() string {
	return c.Address + ":" + c.Path
}

// ValidateConnectionPath splits s at the first unbracketed ":/". The path keeps
// its leading slash. A host containing a colon must be bracketed.
func ValidateConnectionPath(s string) (ConnectionPath, error) {
	s = strings.TrimSpace(s)
	invalid := fmt.Errorf("%w: invalid connection path %q, expected host:/path", ErrInvalidFormat, s)

	var address, rest string
	if strings.HasPrefix(s, "[") {
		end := strings.Index(s, "]")
		if end < 0 || !strings.HasPrefix(s[end+1:], ":/") {
			return ConnectionPath{}, invalid
		}
		address, rest = s[:end+1], s[end+3:]
		if end == 1 {
			return ConnectionPath{}, invalid
		}
	} else {
		idx := strings.Index(s, ":/")
		if idx <= 0 {
			return ConnectionPath{}, invalid
		}
		address, rest = s[:idx], s[idx+2:]
		if strings.Contains(address, ":") {
			return ConnectionPath{}, invalid
		}
	}
	if rest == "" {
		return ConnectionPath{}, invalid
	}
	return ConnectionPath{Address: address, Path: "/" + rest}, nil
}

// ValidateIPList checks every comma-separated token is an IPv4 or IPv6
// literal. All bad tokens are reported, the first one leading the message.
func ValidateIPList(csv string) error {
	bad := netutil.BadIPs(csv)
	if len(bad) == 0 {
		return nil
	}
	errs := make([]error, 0, len(bad))
	for _, b := range bad {
		errs = append(errs, fmt.Errorf("%w: %q is not an IP address", ErrInvalidAddress, b))
	}
	return errors.Join(errs...)
}

// ValidatePortList checks every comma-separated token is a port in 1-65535.
func ValidatePortList(csv string) error {
	if _, err := netutil.ParsePortList(csv); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPort, err)
	}
	return nil
}

// ValidateCredentialLength rejects values longer than maxLen characters.
func ValidateCredentialLength(value string, maxLen int) error {
	if n := len([]rune(value)); n > maxLen {
		return fmt.Errorf("%w: %d characters, at most %d allowed", ErrTooLong, n, maxLen)
	}
	return nil
}

// ValidateUsername applies the username length limit.
func ValidateUsername(value string) error {
	return ValidateCredentialLength(value, MaxUsernameLength)
}

// ValidatePassword applies the password length limit.
func ValidatePassword(value string) error {
	return ValidateCredentialLength(value, MaxPasswordLength)
}
