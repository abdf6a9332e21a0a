package escrowd

// Version should be set by release tag, example: v1.0.1
var Version = "v0.1.0-dev"
