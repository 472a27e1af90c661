// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package photos stores registration photos in a gocloud.dev blob bucket.

Buckets are opened by URL, so the same code runs against a local directory
in production and an in-memory bucket in tests:

	store, err := photos.Open(ctx, "file:///var/lib/gala/photos", cfg.PublicBaseURL, cfg.MaxPhotoBytes)
	store, err := photos.Open(ctx, "mem://", "", 5<<20)

Uploads are sniffed with mimetype. Only raster images are accepted (SVG is
refused). Objects are named <kit>_<unix millis>_<random>.<ext> and served
back under /photos/.
*/
package photos
