// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package aggregate reduces participant submissions into per-item tier
// breakdowns ("who put this image in S?"). It is a pure fold and does no I/O.
package aggregate
