// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package testutil provides an in-memory database, configuration and
// fixtures for handler and router tests.
package testutil
