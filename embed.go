package kudos

import "embed"

// EmbeddedAssets contains the client scripts shipped with the service:
// likes.js, vitals.js
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
