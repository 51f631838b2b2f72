// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"net/http"
	"os"

	"carvel.dev/chartnote/pkg/cmd"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

// BasePathVariable names an env variable holding a path prefix that the
// load balancer adds in front of website paths (eg /chartnote).
const BasePathVariable = "CHARTNOTE_BASE_PATH"

type HandlerFuncAdapter struct {
	RequestAccessor
	handler http.Handler
}

func New(handler http.Handler, stripBasePath string) *HandlerFuncAdapter {
	return &HandlerFuncAdapter{
		RequestAccessor: RequestAccessor{stripBasePath: stripBasePath},
		handler:         handler,
	}
}

func (h *HandlerFuncAdapter) Proxy(event events.ALBTargetGroupRequest) (events.ALBTargetGroupResponse, error) {
	req, err := h.ProxyEventToHTTPRequest(event)
	if err != nil {
		return events.ALBTargetGroupResponse{StatusCode: 421}, fmt.Errorf("Could not convert event to request: %v", err)
	}

	w := NewProxyResponseWriter()
	h.handler.ServeHTTP(http.ResponseWriter(w), req)

	resp, err := w.GetProxyResponse()
	if err != nil {
		return events.ALBTargetGroupResponse{StatusCode: 422}, fmt.Errorf("Error while generating response: %v", err)
	}

	return resp, nil
}

func main() {
	websiteOpts := cmd.NewWebsiteOptions()
	// ALB terminates TLS and sets x-forwarded-proto
	websiteOpts.RedirectToHTTPS = true
	lambda.Start(New(websiteOpts.Server().Mux(), os.Getenv(BasePathVariable)).Proxy)
}
