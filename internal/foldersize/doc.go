// Package foldersize computes the total size of every directory below a root.
//
// It walks directory trees using fastwalk for parallel traversal,
// propagates the size of each file to all of its ancestor directories,
// and builds a size-descending report filtered by a minimum threshold.
package foldersize
