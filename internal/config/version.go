package config

// Version is the GMAO binary version.
// Set at build time via: -ldflags "-X github.com/gmaohq/gmao/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
