package filter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	domain "github.com/cobralans/cobra-lans/internal/domain/manifest"
	"github.com/cobralans/cobra-lans/internal/logger"
)

// AllowList is the set of entry names permitted to appear in listings.
// A nil AllowList permits everything.
type AllowList map[string]struct{}

// errBadHTTPStatus is returned when the filter endpoint answers non-200.
var errBadHTTPStatus = errors.New("unexpected http status")

// Fetch downloads the allow-list from the provided URL. The body is one entry
// name per line; blank lines and lines starting with '#' are ignored.
// An empty URL yields a nil list (allow all).
func Fetch(ctx context.Context, url string) (AllowList, error) {
	if url == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", url, response.Status, errBadHTTPStatus)
	}

	list := make(AllowList)

	scanner := bufio.NewScanner(response.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		list[line] = struct{}{}
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("read allow-list: %w", err)
	}

	logger.InfoKV(ctx, "Fetched entry allow-list", "url", url, "entries", len(list))

	return list, nil
}

// Allows reports whether the entry name passes the filter.
func (l AllowList) Allows(name string) bool {
	if l == nil {
		return true
	}

	_, ok := l[name]

	return ok
}

// Apply returns the entries permitted by the filter, preserving order.
func (l AllowList) Apply(entries []*domain.Entry) []*domain.Entry {
	if l == nil {
		return entries
	}

	filtered := make([]*domain.Entry, 0, len(entries))

	for _, entry := range entries {
		if l.Allows(entry.Name) {
			filtered = append(filtered, entry)
		}
	}

	return filtered
}
