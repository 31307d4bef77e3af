package domain

const (
	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for artifact files (rw-r--r--).
	FilePerm = 0o644

	// VirtualExecRoot is the placeholder persisted in place of the sandbox exec root.
	VirtualExecRoot = "$exec_root"

	// VirtualOutputBase is the placeholder persisted in place of the output base.
	VirtualOutputBase = "$output_base"

	// DefaultManifestName is the manifest file name looked up when none is given.
	DefaultManifestName = "cache-manifest.json"

	// ExternalDir is the exec root directory holding external repositories.
	ExternalDir = "external"

	// DefaultJobs bounds the number of artifacts read concurrently.
	DefaultJobs = 8
)
