package installer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// errInvalidServerAddress is returned for anything but a dotted-quad IPv4 address.
var errInvalidServerAddress = errors.New("server address must be a dotted-quad IPv4 address")

// TargetDir builds the installation target for an entry: installDir\entryName,
// backslash-separated and ending in exactly one trailing backslash regardless
// of how the caller spelled installDir. Windows Installer parses
// INSTALLDIR="...\" as an escaped quote unless the value ends in a separator
// before the closing quote, hence the enforced trailing backslash.
func TargetDir(installDir, entryName string) string {
	dir := strings.ReplaceAll(installDir, "/", `\`)
	dir = strings.TrimRight(dir, `\`)

	return dir + `\` + entryName + `\`
}

// AddressOctets validates a dotted-quad IPv4 address and returns its four
// octets in order.
func AddressOctets(address string) ([]string, error) {
	parts := strings.Split(strings.TrimSpace(address), ".")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%q: %w", address, errInvalidServerAddress)
	}

	for _, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil || value < 0 || value > 255 || part == "" {
			return nil, fmt.Errorf("%q: %w", address, errInvalidServerAddress)
		}
	}

	return parts, nil
}

// SplitArgs splits a raw prerequisite argument string into tokens, honoring
// single and double quotes so paths with spaces survive as one argument.
func SplitArgs(s string) []string {
	var (
		args    []string
		current strings.Builder
		inQuote bool
		quote   rune
		pending bool
	)

	flush := func() {
		if pending {
			args = append(args, current.String())
			current.Reset()

			pending = false
		}
	}

	for _, r := range s {
		switch {
		case inQuote && r == quote:
			inQuote = false
		case !inQuote && (r == '"' || r == '\''):
			inQuote = true
			quote = r
			pending = true
		case !inQuote && unicode.IsSpace(r):
			flush()
		default:
			current.WriteRune(r)

			pending = true
		}
	}

	flush()

	return args
}
