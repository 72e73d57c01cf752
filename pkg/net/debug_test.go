package net

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestPrintHTTPResponse_Nil(t *testing.T) {
	// Must not panic.
	PrintHTTPResponse(nil)
}

func TestPrintHTTPResponse_WithResponse(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Proto:      "HTTP/1.1",
		Body:       io.NopCloser(strings.NewReader("ok")),
		Header:     http.Header{},
	}
	PrintHTTPResponse(resp)
}
