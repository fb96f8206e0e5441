// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client side of the ticketing REST API.
//
// Every request goes through a single Gateway. The gateway attaches the
// bearer token from the session store, paces outgoing requests, logs method,
// path, status and duration (never headers or bodies), and classifies
// failures:
//
//   - transport failures wrap ErrUnreachable
//   - 401 on any path other than the login endpoint clears the session,
//     publishes on Invalidated() and wraps ErrSessionInvalidated
//   - 401 on the login endpoint and every other non-2xx status come back as
//     *StatusError for the caller to render
//
// The gateway never navigates. The TUI controller listens on Invalidated()
// and sends the operator back to the login screen.
//
// # Usage
//
//	gw := api.NewGateway(cfg.API.BaseURL, store, api.WithLogger(logger))
//	svc := api.NewServices(gw)
//
//	tickets, err := svc.Tickets.List(ctx)
//	if errors.Is(err, api.ErrSessionInvalidated) {
//	    return // the controller is already redirecting
//	}
package api
