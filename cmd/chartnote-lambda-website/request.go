// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// CustomHostVariable is the name of the environment variable that contains
// the custom hostname for the request, including protocol
// (eg https://chartnote.example.com). DefaultServerAddress is used otherwise.
const CustomHostVariable = "GO_API_HOST"

// DefaultServerAddress is prepended to the path of each incoming request
const DefaultServerAddress = "https://aws-serverless-go-api.com"

type RequestAccessor struct {
	stripBasePath string
}

func (r *RequestAccessor) ProxyEventToHTTPRequest(req events.ALBTargetGroupRequest) (*http.Request, error) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, fmt.Errorf("Decoding base64 body: %s", err)
		}
		body = decoded
	}

	serverAddress := DefaultServerAddress
	if customAddress, ok := os.LookupEnv(CustomHostVariable); ok {
		serverAddress = customAddress
	}

	reqURL := serverAddress + r.path(req.Path)
	if query := r.query(req); len(query) > 0 {
		reqURL += "?" + query
	}

	httpRequest, err := http.NewRequest(strings.ToUpper(req.HTTPMethod), reqURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("Could not convert request %s:%s to http.Request: %s", req.HTTPMethod, req.Path, err)
		return nil, err
	}

	for k, v := range req.Headers {
		httpRequest.Header.Add(k, v)
	}
	for k, vs := range req.MultiValueHeaders {
		for _, v := range vs {
			httpRequest.Header.Add(k, v)
		}
	}

	return httpRequest, nil
}

func (r *RequestAccessor) path(path string) string {
	if len(r.stripBasePath) > 1 {
		path = strings.TrimPrefix(path, r.stripBasePath)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// query re-encodes query parameters; ALB passes them through
// url-encoded already, either single or multi value.
func (r *RequestAccessor) query(req events.ALBTargetGroupRequest) string {
	params := req.MultiValueQueryStringParameters
	if len(params) == 0 && len(req.QueryStringParameters) > 0 {
		params = map[string][]string{}
		for k, v := range req.QueryStringParameters {
			params[k] = []string{v}
		}
	}

	var keys []string
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pieces []string
	for _, k := range keys {
		for _, v := range params[k] {
			pieces = append(pieces, url.QueryEscape(unescape(k))+"="+url.QueryEscape(unescape(v)))
		}
	}
	return strings.Join(pieces, "&")
}

func unescape(str string) string {
	result, err := url.QueryUnescape(str)
	if err != nil {
		return str
	}
	return result
}
