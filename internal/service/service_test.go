// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package service

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	qr "github.com/unixdj/qrsym"
	"github.com/unixdj/qrsym/internal/config"
)

func newTestService(t *testing.T, entries int) (*Service, *httptest.Server) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Cache.Entries = entries
	cfg.Encode.MaxText = 100
	s := New(cfg, zap.NewNop(), prometheus.NewRegistry())
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return s, srv
}

func get(t *testing.T, srv *httptest.Server, q url.Values) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + "/qr?" + q.Encode())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestPNG(t *testing.T) {
	_, srv := newTestService(t, 8)
	resp, body := get(t, srv, url.Values{"text": {"HELLO"}, "scale": {"2"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	// version 1, 4 module border
	if b := img.Bounds(); b.Dx() != (21+8)*2 || b.Dy() != (21+8)*2 {
		t.Errorf("bounds = %v", b)
	}
}

func TestFormats(t *testing.T) {
	_, srv := newTestService(t, 0)
	c, err := qr.Encode("HELLO", qr.H)
	if err != nil {
		t.Fatal(err)
	}
	c.Scale = 1
	var pbm bytes.Buffer
	if err := c.EncodePBM(&pbm); err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		format, ct string
		want       []byte
	}{
		{"txt", "text/plain; charset=utf-8", []byte(c.String())},
		{"pbm", "image/x-portable-bitmap", pbm.Bytes()},
	} {
		resp, body := get(t, srv, url.Values{
			"text":   {"HELLO"},
			"level":  {"h"},
			"format": {tt.format},
			"scale":  {"1"},
		})
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status %d: %s", tt.format, resp.StatusCode, body)
			continue
		}
		if ct := resp.Header.Get("Content-Type"); ct != tt.ct {
			t.Errorf("%s: Content-Type = %q", tt.format, ct)
		}
		if !bytes.Equal(body, tt.want) {
			t.Errorf("%s: body differs from local rendering", tt.format)
		}
	}
}

func TestErrors(t *testing.T) {
	s, srv := newTestService(t, 8)
	s.cfg.Encode.MaxText = 4000
	for _, tt := range []struct {
		q    url.Values
		code int
	}{
		{url.Values{}, http.StatusBadRequest},
		{url.Values{"text": {"   "}}, http.StatusBadRequest},
		{url.Values{"text": {"x"}, "level": {"X"}}, http.StatusBadRequest},
		{url.Values{"text": {"x"}, "format": {"gif"}}, http.StatusBadRequest},
		{url.Values{"text": {"x"}, "scale": {"0"}}, http.StatusBadRequest},
		{url.Values{"text": {"x"}, "scale": {"33"}}, http.StatusBadRequest},
		{url.Values{"text": {"x"}, "scale": {"two"}}, http.StatusBadRequest},
		{url.Values{"text": {"\xff"}}, http.StatusBadRequest},
		{url.Values{"text": {strings.Repeat("x", 4001)}}, http.StatusBadRequest},
		{url.Values{"text": {strings.Repeat("A", 3000)}, "level": {"L"}}, http.StatusRequestEntityTooLarge},
	} {
		resp, body := get(t, srv, tt.q)
		if resp.StatusCode != tt.code {
			t.Errorf("%v: status %d, want %d: %s", tt.q, resp.StatusCode, tt.code, body)
		}
	}
	if got := testutil.ToFloat64(s.m.requests.WithLabelValues("413")); got != 1 {
		t.Errorf("413 count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.m.requests.WithLabelValues("400")); got != 9 {
		t.Errorf("400 count = %v, want 9", got)
	}
}

func TestLargeImage(t *testing.T) {
	s, srv := newTestService(t, 8)
	s.cfg.Encode.MaxText = 4000
	s.cfg.Render.MaxScale = 64
	// version 40 at 64 pixels per module
	resp, body := get(t, srv, url.Values{
		"text":  {strings.Repeat("y", 2331)},
		"scale": {"64"},
	})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status %d, want 413: %s", resp.StatusCode, body)
	}
	if got := testutil.ToFloat64(s.m.requests.WithLabelValues("413")); got != 1 {
		t.Errorf("413 count = %v, want 1", got)
	}
}

func TestCache(t *testing.T) {
	s, srv := newTestService(t, 2)
	q := func(text string) url.Values {
		return url.Values{"text": {text}, "format": {"txt"}}
	}
	for i, text := range []string{"a", "a", "b", "c", "a"} {
		if resp, body := get(t, srv, q(text)); resp.StatusCode != http.StatusOK {
			t.Fatalf("%d: status %d: %s", i, resp.StatusCode, body)
		}
	}
	// "a" is evicted by "b" and "c"
	hits := testutil.ToFloat64(s.m.cache.WithLabelValues("hit"))
	misses := testutil.ToFloat64(s.m.cache.WithLabelValues("miss"))
	if hits != 1 || misses != 4 {
		t.Errorf("hits, misses = %v, %v, want 1, 4", hits, misses)
	}
	if n := s.cache.Len(); n != 2 {
		t.Errorf("cache holds %d entries, want 2", n)
	}
}

func TestHealthz(t *testing.T) {
	_, srv := newTestService(t, 0)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Errorf("healthz: %d %q", resp.StatusCode, body)
	}
	resp, err = http.Post(srv.URL+"/qr", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /qr: %s", resp.Status)
	}
}

func ExampleService_Handler() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	srv := httptest.NewServer(New(cfg, zap.NewNop(), prometheus.NewRegistry()).Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/qr?text=HELLO&format=txt")
	if err != nil {
		panic(err)
	}
	resp.Body.Close()
	fmt.Println(resp.Status, resp.Header.Get("Content-Type"))
	// Output: 200 OK text/plain; charset=utf-8
}
