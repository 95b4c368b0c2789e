// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package imagefetch proxies images from a fixed set of allowed hosts so
// board exports can draw them without cross-origin restrictions.
package imagefetch
