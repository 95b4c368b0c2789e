// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client talks to the tierboard HTTP API.

	c := client.New("http://localhost:3318", client.WithAdminKey(key))
	results, err := c.Results(ctx, "demo")

A Session wraps one participant's board for a project and tracks the
participant state:

	not_started → editing → submitted → editing → ...

Edits are saved to the identity store as a draft and cleared only after the
server accepts the submission. Non-2xx answers come back as *APIError.
*/
package client
