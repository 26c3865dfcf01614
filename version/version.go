package version

// will be replaced with the release version when using goreleaser
var version = "development"

// Version returns the build version of the hooks binary
func Version() string {
	return version
}
