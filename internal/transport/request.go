package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/recordflow/dossier/pkg/errors"
)

// RequestBuilder builds record store endpoint URLs from a base URL and an
// optional site path prefix.
type RequestBuilder struct {
	base *url.URL
	site string
}

// NewRequestBuilder creates a request builder for the given store base URL.
// The site path is joined between the base URL and every endpoint path.
func NewRequestBuilder(baseURL, sitePath string) (*RequestBuilder, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.WrapValidation("base_url", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.NewValidationError("base_url", baseURL, "must be an absolute URL")
	}
	return &RequestBuilder{base: base, site: strings.Trim(sitePath, "/")}, nil
}

// Endpoint returns the absolute URL for the given path segments, with query
// parameters attached when provided.
func (rb *RequestBuilder) Endpoint(path string, query url.Values) string {
	u := *rb.base
	segments := []string{}
	if rb.site != "" {
		segments = append(segments, strings.Split(rb.site, "/")...)
	}
	segments = append(segments, strings.Split(strings.Trim(path, "/"), "/")...)
	u = *u.JoinPath(segments...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// AbsoluteURL resolves a server-relative path returned by the store against
// the store's host, yielding a caller-usable absolute URL.
func (rb *RequestBuilder) AbsoluteURL(serverRelative string) (string, error) {
	ref, err := url.Parse(serverRelative)
	if err != nil {
		return "", errors.WrapValidation("server_relative_url", err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if !strings.HasPrefix(ref.Path, "/") {
		return "", errors.NewValidationError("server_relative_url", serverRelative, "must be server-relative")
	}
	return rb.base.ResolveReference(ref).String(), nil
}

// Host returns the store host, used to attribute API errors.
func (rb *RequestBuilder) Host() string {
	return rb.base.Host
}

// DecodeResponse decodes a JSON response into the target structure. Non-2xx
// statuses become APIErrors carrying the status code and response body;
// undecodable bodies become ParseErrors. Both classes satisfy
// errors.Is(err, errors.ErrTransport).
func DecodeResponse(resp *http.Response, store string, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapResource("read", "response body", "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errors.APIError{
			Store:      store,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}
