package sidh

var (
	Version   = "v0.0.0-in-progress"
	CommitSHA = "unknown"
)

// LibraryVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func LibraryVersion() string {
	return Version
}

// Commit returns the source revision recorded at build time, or "unknown".
func Commit() string {
	return CommitSHA
}
