package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidRoots is returned when the exec root is not located under the output base.
	ErrInvalidRoots = zerr.New("exec root is not under output base")

	// ErrInvalidLabel is returned when a label string cannot be parsed.
	ErrInvalidLabel = zerr.New("invalid label, expected format: @workspace//package:name")

	// ErrManifestRead is returned when the cache manifest exists but cannot be read.
	ErrManifestRead = zerr.New("failed to read cache manifest")

	// ErrManifestInvalid is returned when the cache manifest cannot be parsed or has a bad shape.
	ErrManifestInvalid = zerr.New("invalid cache manifest")

	// ErrDuplicateConfiguration is returned when two configurations with the same identity are merged.
	ErrDuplicateConfiguration = zerr.New("input caches contain the same configuration more than once")

	// ErrDuplicateArtifact is returned when a manifest lists two artifacts for the same label.
	ErrDuplicateArtifact = zerr.New("manifest lists more than one artifact for the same label")

	// ErrMissingDependencyArtifact is returned when a declared dependency artifact cannot be found.
	ErrMissingDependencyArtifact = zerr.New("missing dependency artifact")

	// ErrUnresolvedConfiguration is returned when a result references a configuration no artifact defined.
	ErrUnresolvedConfiguration = zerr.New("result references an unknown configuration")

	// ErrArtifactRead is returned when an artifact cannot be read.
	ErrArtifactRead = zerr.New("failed to read cache artifact")

	// ErrArtifactWrite is returned when an artifact cannot be written.
	ErrArtifactWrite = zerr.New("failed to write cache artifact")

	// ErrCorruptArtifact is returned when an artifact stream is truncated or malformed.
	ErrCorruptArtifact = zerr.New("corrupt cache artifact")

	// ErrIncompatibleArtifact is returned when an artifact has an unknown format or version.
	ErrIncompatibleArtifact = zerr.New("incompatible cache artifact")

	// ErrEngineInstall is returned when the inner engine rejects the prepared caches.
	ErrEngineInstall = zerr.New("failed to install caches into the build engine")

	// ErrInvalidState is returned when a bridge operation is called out of order.
	ErrInvalidState = zerr.New("cache bridge operation called in the wrong state")

	// ErrBuildFailed is returned when the build callback of a session fails.
	ErrBuildFailed = zerr.New("build failed")

	// ErrUnknownPathMode is returned when a path conversion names an unknown mode.
	ErrUnknownPathMode = zerr.New("unknown path mode, expected one of: virtual, real, manifest")
)
