package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/tagstorm/internal/suggest"
	"github.com/dshills/tagstorm/internal/tags"
)

// ErrBadResponse is returned when a remote answer is not a JSON array of
// strings or objects.
var ErrBadResponse = errors.New("unexpected suggestion response")

// maxBody limits how much of a response Remote reads.
const maxBody = 4 << 20

// Remote queries an HTTP endpoint. The query is sent as a URL parameter;
// the response must be a JSON array, either at the root or under a data
// key, or at a custom gjson path. Array elements may be strings or objects;
// scalar fields of objects become tag fields.
type Remote struct {
	endpoint string
	param    string
	path     string
	client   *http.Client
	header   http.Header
}

// RemoteOption configures Remote.
type RemoteOption func(*Remote)

// WithParam sets the query parameter name. The default is "q".
func WithParam(name string) RemoteOption {
	return func(r *Remote) {
		if name != "" {
			r.param = name
		}
	}
}

// WithPath sets the gjson path of the result array.
func WithPath(path string) RemoteOption {
	return func(r *Remote) {
		r.path = path
	}
}

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) {
		if c != nil {
			r.client = c
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) RemoteOption {
	return func(r *Remote) {
		r.header.Add(key, value)
	}
}

// NewRemote creates a source querying endpoint.
func NewRemote(endpoint string, opts ...RemoteOption) *Remote {
	r := &Remote{
		endpoint: endpoint,
		param:    "q",
		client:   &http.Client{Timeout: 10 * time.Second},
		header:   make(http.Header),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Suggest implements suggest.Source.
func (r *Remote) Suggest(ctx context.Context, query string) (suggest.Result, error) {
	u, err := url.Parse(r.endpoint)
	if err != nil {
		return suggest.Result{}, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set(r.param, query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return suggest.Result{}, err
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return suggest.Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return suggest.Result{}, fmt.Errorf("%s: %s", u.Redacted(), resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return suggest.Result{}, fmt.Errorf("read response: %w", err)
	}
	return ParseJSON(body, r.path)
}

// ParseJSON extracts suggestions from a JSON document. With an empty path
// it uses the root array, or the array under "data" when the root is an
// object.
func ParseJSON(body []byte, path string) (suggest.Result, error) {
	if !gjson.ValidBytes(body) {
		return suggest.Result{}, fmt.Errorf("%w: invalid JSON", ErrBadResponse)
	}

	var list gjson.Result
	switch {
	case path != "":
		list = gjson.GetBytes(body, path)
	default:
		list = gjson.ParseBytes(body)
		if list.IsObject() {
			list = list.Get("data")
		}
	}
	if !list.IsArray() {
		return suggest.Result{}, fmt.Errorf("%w: no array", ErrBadResponse)
	}

	elems := list.Array()
	if len(elems) == 0 {
		return suggest.Strings(), nil
	}
	if elems[0].IsObject() {
		out := make([]tags.Tag, 0, len(elems))
		for _, el := range elems {
			if !el.IsObject() {
				return suggest.Result{}, fmt.Errorf("%w: mixed array", ErrBadResponse)
			}
			out = append(out, objectTag(el))
		}
		return suggest.Tags(out...), nil
	}

	out := make([]string, 0, len(elems))
	for _, el := range elems {
		if el.IsObject() || el.IsArray() {
			return suggest.Result{}, fmt.Errorf("%w: mixed array", ErrBadResponse)
		}
		out = append(out, el.String())
	}
	return suggest.Strings(out...), nil
}

func objectTag(obj gjson.Result) tags.Tag {
	t := make(tags.Tag)
	obj.ForEach(func(key, value gjson.Result) bool {
		if value.IsObject() || value.IsArray() || value.Type == gjson.Null {
			return true
		}
		t[key.String()] = strings.TrimSpace(value.String())
		return true
	})
	return t
}
