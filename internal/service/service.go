// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package service serves QR codes over HTTP.
//
//	GET /qr?text=...&level=L|M|Q|H&format=png|pbm|txt&scale=N
//	GET /healthz
package service

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/golang/groupcache/lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	qr "github.com/unixdj/qrsym"
	"github.com/unixdj/qrsym/internal/config"
)

// Output formats and their content types.
var formats = map[string]string{
	"png": "image/png",
	"pbm": "image/x-portable-bitmap",
	"txt": "text/plain; charset=utf-8",
}

type key struct {
	text   string
	level  qr.Level
	format string
	scale  int
}

type response struct {
	contentType string
	body        []byte
}

type metrics struct {
	requests *prometheus.CounterVec
	encode   prometheus.Histogram
	cache    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "qrd_requests_total",
			Help: "QR code requests by HTTP status code.",
		}, []string{"code"}),
		encode: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "qrd_encode_seconds",
			Help:    "Time spent encoding and rendering a QR code.",
			Buckets: prometheus.DefBuckets,
		}),
		cache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "qrd_cache_lookups_total",
			Help: "Rendered code cache lookups by result.",
		}, []string{"result"}),
	}
}

// A Service renders QR codes for HTTP clients.
type Service struct {
	cfg *config.Config
	log *zap.Logger
	m   *metrics

	mu    sync.Mutex
	cache *lru.Cache // nil if caching is disabled
}

// New returns a Service.  Metrics are registered with reg.
func New(cfg *config.Config, log *zap.Logger, reg prometheus.Registerer) *Service {
	s := &Service{
		cfg: cfg,
		log: log,
		m:   newMetrics(reg),
	}
	if cfg.Cache.Entries > 0 {
		s.cache = lru.New(cfg.Cache.Entries)
	}
	return s
}

// Handler returns the HTTP handler of s.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /qr", s.serveQR)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	return mux
}

// A requestError is reported to the client with its status code.
type requestError struct {
	code int
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, a ...any) error {
	return &requestError{http.StatusBadRequest, fmt.Sprintf(format, a...)}
}

// parse validates the query of r.
func (s *Service) parse(r *http.Request) (key, error) {
	q := r.URL.Query()
	k := key{
		text:   q.Get("text"),
		level:  s.cfg.Level(),
		format: q.Get("format"),
		scale:  s.cfg.Render.Scale,
	}
	if !utf8.ValidString(k.text) {
		return k, badRequest("text is not valid UTF-8")
	}
	if n := len(k.text); n > s.cfg.Encode.MaxText {
		return k, badRequest("text too long: %d bytes, limit %d", n, s.cfg.Encode.MaxText)
	}
	if v := q.Get("level"); v != "" {
		l, err := qr.ParseLevel(v)
		if err != nil {
			return k, badRequest("level %q: %v", v, err)
		}
		k.level = l
	}
	if k.format == "" {
		k.format = "png"
	} else if _, ok := formats[k.format]; !ok {
		return k, badRequest("unknown format %q", k.format)
	}
	if v := q.Get("scale"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > s.cfg.Render.MaxScale {
			return k, badRequest("scale %q: must be between 1 and %d", v, s.cfg.Render.MaxScale)
		}
		k.scale = n
	}
	return k, nil
}

// render encodes and renders the code described by k.
func (s *Service) render(k key) (*response, error) {
	defer prometheus.NewTimer(s.m.encode).ObserveDuration()
	c, err := qr.Encoder{Level: k.level, Parallel: s.cfg.Encode.Parallel}.Encode(k.text)
	switch {
	case errors.Is(err, qr.ErrDataOverflow):
		return nil, &requestError{http.StatusRequestEntityTooLarge, err.Error()}
	case errors.Is(err, qr.ErrInvalidInput):
		return nil, badRequest("%v", err)
	case err != nil:
		return nil, fmt.Errorf("encode: %w", err)
	}
	c.Scale = k.scale
	c.Border = s.cfg.Render.Border

	var b bytes.Buffer
	switch k.format {
	case "png":
		err = c.EncodePNG(&b)
	case "pbm":
		err = c.EncodePBM(&b)
	case "txt":
		_, err = b.WriteString(c.String())
	}
	if errors.Is(err, qr.ErrLargeImage) {
		return nil, &requestError{http.StatusRequestEntityTooLarge,
			fmt.Sprintf("%v: version %v at scale %d", err, c.Version, k.scale)}
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", k.format, err)
	}
	s.log.Debug("encoded",
		zap.Int("bytes", len(k.text)),
		zap.Stringer("level", c.Level),
		zap.Int("version", int(c.Version)),
		zap.Int("mask", int(c.Mask)))
	return &response{formats[k.format], b.Bytes()}, nil
}

func (s *Service) lookup(k key) (*response, bool) {
	if s.cache == nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.Get(k)
	if !ok {
		s.m.cache.WithLabelValues("miss").Inc()
		return nil, false
	}
	s.m.cache.WithLabelValues("hit").Inc()
	return v.(*response), true
}

func (s *Service) store(k key, resp *response) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	s.cache.Add(k, resp)
	s.mu.Unlock()
}

func (s *Service) serveQR(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	code := http.StatusOK
	defer func() {
		s.m.requests.WithLabelValues(strconv.Itoa(code)).Inc()
		s.log.Info("request",
			zap.String("remote", r.RemoteAddr),
			zap.Int("code", code),
			zap.Duration("elapsed", time.Since(start)))
	}()

	resp, err := s.get(r)
	if err != nil {
		var re *requestError
		if errors.As(err, &re) {
			code = re.code
			http.Error(w, re.msg, code)
			return
		}
		code = http.StatusInternalServerError
		s.log.Error("render failed", zap.Error(err))
		http.Error(w, http.StatusText(code), code)
		return
	}
	w.Header().Set("Content-Type", resp.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.body)))
	w.Write(resp.body)
}

// get returns the response for r, from the cache if possible.
func (s *Service) get(r *http.Request) (*response, error) {
	k, err := s.parse(r)
	if err != nil {
		return nil, err
	}
	if resp, ok := s.lookup(k); ok {
		return resp, nil
	}
	resp, err := s.render(k)
	if err != nil {
		return nil, err
	}
	s.store(k, resp)
	return resp, nil
}
