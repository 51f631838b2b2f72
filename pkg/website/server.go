// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package website

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"carvel.dev/chartnote/pkg/definitions"
	"carvel.dev/chartnote/pkg/playground"
)

type ServerOpts struct {
	ListenAddr      string
	RedirectToHTTPS bool
	AnnotateFunc    func([]byte) ([]byte, error)
	ErrorFunc       func(error) ([]byte, error)
}

type Server struct {
	opts ServerOpts
}

type definitionResp struct {
	definitions.Definition
	HTML string `json:"html"`
}

const searchLimit = 10

func NewServer(opts ServerOpts) *Server {
	return &Server{opts}
}

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.redirectToHTTPS(s.noCacheHandler(s.mainHandler)))
	mux.HandleFunc("/js/", s.redirectToHTTPS(s.noCacheHandler(s.assetHandler)))
	mux.HandleFunc("/examples", s.redirectToHTTPS(s.noCacheHandler(s.corsHandler(s.exampleListHandler))))
	mux.HandleFunc("/examples/", s.redirectToHTTPS(s.noCacheHandler(s.corsHandler(s.examplesHandler))))
	mux.HandleFunc("/definitions/", s.redirectToHTTPS(s.corsHandler(s.definitionHandler)))
	mux.HandleFunc("/search", s.redirectToHTTPS(s.noCacheHandler(s.corsHandler(s.searchHandler))))
	// no need for caching as it's a POST
	mux.HandleFunc("/annotate", s.redirectToHTTPS(s.corsHandler(s.annotateHandler)))
	mux.HandleFunc("/health", s.healthHandler)
	return mux
}

func (s *Server) Run() error {
	server := &http.Server{
		Addr:              s.opts.ListenAddr,
		Handler:           s.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	fmt.Printf("Listening on http://%s\n", server.Addr)
	return server.ListenAndServe()
}

func (s *Server) mainHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	s.write(w, []byte(Files["templates/index.html"].Content))
}

func (s *Server) assetHandler(w http.ResponseWriter, r *http.Request) {
	file, found := Files[strings.TrimPrefix(r.URL.Path, "/")]
	if !found {
		http.NotFound(w, r)
		return
	}
	if strings.HasSuffix(r.URL.Path, ".css") {
		w.Header().Set("Content-Type", "text/css")
	}
	if strings.HasSuffix(r.URL.Path, ".js") {
		w.Header().Set("Content-Type", "application/javascript")
	}
	s.write(w, []byte(file.Content))
}

func (s *Server) exampleListHandler(w http.ResponseWriter, r *http.Request) {
	slimExamples := []playground.Example{}

	for _, example := range playground.Examples() {
		slimExamples = append(slimExamples, playground.Example{
			ID:          example.ID,
			DisplayName: example.DisplayName,
			Description: example.Description,
		})
	}

	s.writeJSON(w, slimExamples)
}

func (s *Server) examplesHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/examples/")

	example, found := playground.FindExample(id)
	if !found {
		s.logErrorWithStatus(w, http.StatusNotFound, fmt.Errorf("Did not find example: %s", id))
		return
	}

	s.writeJSON(w, example)
}

// definitionHandler serves /definitions/{builtin,function}/{name}.
// Definitions are static, so responses may be cached.
func (s *Server) definitionHandler(w http.ResponseWriter, r *http.Request) {
	kind, name, found := strings.Cut(strings.TrimPrefix(r.URL.Path, "/definitions/"), "/")
	if !found || len(name) == 0 {
		s.logErrorWithStatus(w, http.StatusNotFound, fmt.Errorf("Expected path /definitions/{kind}/{name}"))
		return
	}

	var def definitions.Definition

	switch definitions.Kind(kind) {
	case definitions.KindBuiltIn:
		def, found = definitions.BuiltIn(name)
	case definitions.KindFunction:
		def, found = definitions.Function(name)
	default:
		s.logErrorWithStatus(w, http.StatusNotFound, fmt.Errorf("Unknown definition kind '%s'", kind))
		return
	}

	if !found {
		s.logErrorWithStatus(w, http.StatusNotFound, fmt.Errorf("Did not find %s definition: %s", kind, name))
		return
	}

	html, err := definitions.RenderHTML(def.Markdown)
	if err != nil {
		s.logError(w, err)
		return
	}

	s.writeJSON(w, definitionResp{def, html})
}

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	limit := searchLimit
	if limitStr := r.URL.Query().Get("limit"); len(limitStr) > 0 {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			s.logErrorWithStatus(w, http.StatusBadRequest, fmt.Errorf("Parsing limit: %s", err))
			return
		}
	}

	results := definitions.Search(r.URL.Query().Get("q"), limit)
	if results == nil {
		results = []definitions.Definition{}
	}

	s.writeJSON(w, results)
}

func (s *Server) annotateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.logErrorWithStatus(w, http.StatusMethodNotAllowed, fmt.Errorf("Expected POST request"))
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.logError(w, err)
		return
	}

	resp, err := s.opts.AnnotateFunc(data)
	if err != nil {
		s.logError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	s.write(w, resp)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.write(w, []byte("ok"))
}

func (s *Server) logError(w http.ResponseWriter, err error) {
	s.logErrorWithStatus(w, http.StatusOK, err)
}

func (s *Server) logErrorWithStatus(w http.ResponseWriter, status int, err error) {
	log.Print(err.Error())

	resp, err := s.opts.ErrorFunc(err)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "annotation error: %s", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	s.write(w, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, val interface{}) {
	bs, err := json.Marshal(val)
	if err != nil {
		s.logError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	s.write(w, bs)
}

func (s *Server) write(w http.ResponseWriter, data []byte) {
	w.Write(data) // not fmt.Fprintf!
}

func (s *Server) redirectToHTTPS(wrappedFunc func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	if !s.opts.RedirectToHTTPS {
		return wrappedFunc
	}
	return func(w http.ResponseWriter, r *http.Request) {
		checkHTTPS := true
		clientIP, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil {
			if clientIP == "127.0.0.1" {
				checkHTTPS = false
			}
		}

		if checkHTTPS && r.Header.Get(http.CanonicalHeaderKey("x-forwarded-proto")) != "https" {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				host := r.Header.Get("host")
				if len(host) == 0 {
					host = r.Host
				}
				if len(host) == 0 {
					s.logError(w, fmt.Errorf("expected non-empty Host header"))
					return
				}

				http.Redirect(w, r, "https://"+host+r.URL.RequestURI(), http.StatusMovedPermanently)
				return
			}

			// Fail if it's not a GET or HEAD since req may have carried body insecurely
			s.logError(w, fmt.Errorf("expected HTTPs connection"))
			return
		}

		wrappedFunc(w, r)
	}
}

var (
	noCacheHeaders = map[string]string{
		"Expires":         time.Unix(0, 0).Format(time.RFC1123),
		"Cache-Control":   "no-cache, private, max-age=0",
		"Pragma":          "no-cache",
		"X-Accel-Expires": "0",
	}
)

func (s *Server) noCacheHandler(wrappedFunc func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, v := range noCacheHeaders {
			w.Header().Set(k, v)
		}

		wrappedFunc(w, r)
	}
}

func (s *Server) corsHandler(wrappedFunc func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		wrappedFunc(w, r)
	}
}
