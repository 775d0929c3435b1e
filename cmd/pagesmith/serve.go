package main

import (
	pagesmithhttp "github.com/fwojciec/pagesmith/http"
)

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := pagesmithhttp.NewServer()
	server.Addr = c.Addr
	server.TemplateLoader = deps.Loader
	server.TemplateRewriter = deps.Rewriter
	server.Logger = deps.Logger
	if deps.Metrics != nil {
		server.Metrics = deps.Metrics.Handler()
		server.Observer = deps.Metrics
	}
	return server.ListenAndServe(deps.Ctx)
}
