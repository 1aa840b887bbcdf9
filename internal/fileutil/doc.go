// Package fileutil provides the file operations used when reorganizing a
// library: atomic and checksum-verified copies, moves that survive crossing
// filesystems, and collision-free target naming.
package fileutil
