package commands

import "io/fs"

// SetDirectoryReader replaces the directory listing used by the walk.
func SetDirectoryReader(treeBuilder *TreeBuilder, readDirectory func(directoryPath string) ([]fs.DirEntry, error)) {
	treeBuilder.readDirectory = readDirectory
}
