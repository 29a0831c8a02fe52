package dfsclient

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// escapePath escapes each path segment while preserving the separators.
func escapePath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// encodeProperties serializes user metadata to the x-ms-properties wire form:
// comma-separated name=base64(value) pairs, in stable order.
func encodeProperties(metadata map[string]string) string {
	names := make([]string, 0, len(metadata))
	for name := range metadata {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+base64.StdEncoding.EncodeToString([]byte(metadata[name])))
	}
	return strings.Join(pairs, ",")
}

// decodeProperties parses the x-ms-properties wire form back into a metadata
// map. Malformed pairs are skipped.
func decodeProperties(properties string) map[string]string {
	if properties == "" {
		return nil
	}
	metadata := make(map[string]string)
	for _, pair := range strings.Split(properties, ",") {
		name, encoded, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		value, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			continue
		}
		metadata[name] = string(value)
	}
	if len(metadata) == 0 {
		return nil
	}
	return metadata
}

// parseHTTPTime parses an HTTP date header, returning the zero time on failure.
func parseHTTPTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// drain discards and closes a response body so the connection can be reused.
func drain(resp *http.Response) {
	if resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
}
