package common

const (
	App        = "proxyprobe"
	Author     = "paraleipsis"
	Repository = "proxyprobe"
)

// Version is set at build time with -ldflags "-X .../common.Version=...".
var Version = "v0.1.0"

const Banner = `
 ┌─┐┬─┐┌─┐─┐ ┬┬ ┬┌─┐┬─┐┌─┐┌┐ ┌─┐
 ├─┘├┬┘│ │┌┴┬┘└┬┘├─┘├┬┘│ │├┴┐├┤
 ┴  ┴└─└─┘┴ └─ ┴ ┴  ┴└─└─┘└─┘└─┘
`
