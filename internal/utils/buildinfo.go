// Package utils provides helper functions, including version retrieval.
package utils

import (
	"runtime/debug"
)

const (
	unknownVersion       = "unknown"
	develVersion         = "(devel)"
	shortHashLength      = 7
	develVersionSuffix   = "-dev"
	dirtyVersionSuffix   = "-dirty"
	revisionSettingKey   = "vcs.revision"
	modifiedSettingKey   = "vcs.modified"
	modifiedSettingValue = "true"
)

// GetApplicationVersion reports the version of the running binary. A module
// version set by `go install` wins; otherwise the VCS revision stamped by
// `go build` is used, abbreviated and marked as a development build.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return unknownVersion
	}
	return versionFromBuildInfo(buildInfo)
}

func versionFromBuildInfo(buildInfo *debug.BuildInfo) string {
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}
	revision := ""
	modified := false
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case revisionSettingKey:
			revision = setting.Value
		case modifiedSettingKey:
			modified = setting.Value == modifiedSettingValue
		}
	}
	if revision == "" {
		return unknownVersion
	}
	if len(revision) > shortHashLength {
		revision = revision[:shortHashLength]
	}
	version := revision + develVersionSuffix
	if modified {
		version += dirtyVersionSuffix
	}
	return version
}
