package internal

import (
	"bytes"
	"net/http"
	"slices"
	"strconv"
)

// Response is an immutable HTTP response value.
// All With* methods return a modified copy and leave the receiver untouched,
// so a response can be safely post-processed by every middleware on the way out.
type Response struct {
	header http.Header
	body   []byte
	status int
}

// NewResponse creates a response with the given status code and body.
func NewResponse(status int, body []byte) Response {
	return Response{
		status: status,
		header: make(http.Header),
		body:   bytes.Clone(body),
	}
}

// HTML creates a text/html response.
func HTML(status int, body string) Response {
	return NewResponse(status, []byte(body)).
		WithHeader("Content-Type", "text/html; charset=utf-8")
}

// Text creates a text/plain response.
func Text(status int, body string) Response {
	return NewResponse(status, []byte(body)).
		WithHeader("Content-Type", "text/plain")
}

// Redirect creates a body-less redirect response pointing at location.
func Redirect(status int, location string) Response {
	return NewResponse(status, nil).WithHeader("Location", location)
}

// Status returns the HTTP status code.
// A zero-value Response reports 200.
func (r Response) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// Header returns the first value of the named header.
// Header names are case-insensitive.
func (r Response) Header(name string) string {
	return r.header.Get(name)
}

// Values returns all values of the named header in insertion order.
func (r Response) Values(name string) []string {
	return slices.Clone(r.header.Values(name))
}

// Headers returns a copy of all response headers.
func (r Response) Headers() http.Header {
	if r.header == nil {
		return make(http.Header)
	}
	return r.header.Clone()
}

// Body returns a copy of the response body.
func (r Response) Body() []byte {
	return bytes.Clone(r.body)
}

// WithStatus returns a copy with the status code replaced.
func (r Response) WithStatus(code int) Response {
	r.status = code
	return r
}

// WithHeader returns a copy with the named header replaced by value.
func (r Response) WithHeader(name, value string) Response {
	r.header = r.Headers()
	r.header.Set(name, value)
	return r
}

// WithAddedHeader returns a copy with value appended to the named header.
func (r Response) WithAddedHeader(name, value string) Response {
	r.header = r.Headers()
	r.header.Add(name, value)
	return r
}

// WithoutHeader returns a copy with the named header removed.
func (r Response) WithoutHeader(name string) Response {
	r.header = r.Headers()
	r.header.Del(name)
	return r
}

// WithBody returns a copy with the body replaced.
func (r Response) WithBody(body []byte) Response {
	r.body = bytes.Clone(body)
	return r
}

// WriteTo serializes the response to w.
// Content-Length is set from the body unless already present.
func (r Response) WriteTo(w http.ResponseWriter) error {
	h := w.Header()
	for name, values := range r.header {
		h[name] = slices.Clone(values)
	}
	if h.Get("Content-Length") == "" {
		h.Set("Content-Length", strconv.Itoa(len(r.body)))
	}
	w.WriteHeader(r.Status())
	if len(r.body) == 0 {
		return nil
	}
	_, err := w.Write(r.body)
	return err
}
