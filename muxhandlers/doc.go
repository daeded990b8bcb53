// Package muxhandlers provides HTTP middleware for the mux action
// dispatcher.
//
// Middleware passed to Router.Use runs after matching, so it can read the
// matched execute with mux.CurrentRoute:
//
//	r.Use(
//	    muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{Logger: logger}),
//	    muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}),
//	    muxhandlers.AccessLogMiddleware(muxhandlers.AccessLogConfig{Logger: logger}),
//	)
//
// # Method Override
//
// MethodOverrideMiddleware changes the request method from a header or the
// _method form field, letting HTML forms reach put$ and delete$ executes.
// It must wrap the router because routing depends on the method.
//
// # Double Submit
//
// DoubleSubmitMiddleware verifies one-time tokens issued by a
// token.Manager. By default the token group is the action name:
//
//	tokens := token.NewManager()
//	mw, err := muxhandlers.DoubleSubmitMiddleware(muxhandlers.DoubleSubmitConfig{
//	    Manager:     tokens,
//	    SessionFunc: sessionID,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Use(mw)
//
// A form rendered by the action embeds tokens.Generate(session, "signup")
// in its _token field. Resubmitting it answers 409 Conflict.
//
// # Request Bodies
//
// ContentTypeCheckMiddleware answers 415 when a form is posted to an
// execute binding a JSON body, or the other way round.
// RequestSizeLimitMiddleware bounds request bodies, with a separate limit
// for JSON body executes.
package muxhandlers
