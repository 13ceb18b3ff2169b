package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// KeyExtractor derives a per-request key, such as a conversation session, from a
// request. An empty key opts the request out of keyed middleware.
type KeyExtractor func(r *http.Request) string

func HeaderKey(name string) KeyExtractor {
	return func(r *http.Request) string {
		return r.Header.Get(name)
	}
}

// JSONBodyKey reads a top-level string field from a JSON body and restores the body
// for the next handler.
func JSONBodyKey(field string) KeyExtractor {
	return func(r *http.Request) string {
		if r.Body == nil {
			return ""
		}
		body, err := readAndRestoreBody(r)
		if err != nil || len(body) == 0 {
			return ""
		}
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(body, &doc); err != nil {
			return ""
		}
		var value string
		if err := json.Unmarshal(doc[field], &value); err != nil {
			return ""
		}
		return value
	}
}

// FirstKey returns the first non-empty key produced by extractors.
func FirstKey(extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				return key
			}
		}
		return ""
	}
}

func readAndRestoreBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return body, nil
}
