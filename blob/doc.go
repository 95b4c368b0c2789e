// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package blob stores uploaded item images on the local filesystem.

Files live under a single directory opened with os.OpenRoot, so keys can
never resolve outside it:

	store, err := blob.Open(cfg.ImageDir, cfg.PublicBaseURL)
	key, err := store.Put(projectID, header.Filename, file)
	item.ImageURL = store.URL(key)

Uploads are sniffed with http.DetectContentType and anything that is not
an image is rejected with ErrNotImage.
*/
package blob
