// Package snapshot captures a filesystem subtree into a single self-describing document and
// restores an equivalent subtree from it.
//
// The main features of this package include:
//
//   - Defining the Node sum type, which models files, directories, symbolic links and entries of
//     unsupported types in a nested, hierarchical format.
//   - Capturing a tree with an Encoder. Regular files are stored as text when their contents are
//     valid UTF-8 classified as text, and base64 encoded otherwise, so that contents are always
//     restored byte for byte.
//   - Restoring a tree with a Decoder. The root is rehomed to a caller supplied destination, and
//     every other entry is created at its parent path joined with its own name.
//   - Serializing the tree as a JSON document, optionally framed in a checksummed binary envelope
//     or in a UnixFS raw node.
//   - Comparing two trees to identify added, removed or modified entries.
//
// Permissions, timestamps, ownership and extended attributes are not captured.
package snapshot
