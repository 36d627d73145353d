// Package deliverable assembles a deliverable model package on disk.
//
// A package is a directory holding a metadata.json manifest and three asset
// subdirectories, one per collaborator:
//
//	<export_dir>/
//	  metadata.json
//	  asset/
//	    processor/
//	    model/
//	    metadata/
//
// Each collaborator serializes its own assets into its subdirectory and
// returns a descriptor that is embedded verbatim into the manifest. The
// manifest also lists the sorted, deduplicated union of every collaborator's
// declared dependencies.
//
// Preparing a package wipes the export directory. Callers must not point it
// at a directory holding unrelated data.
package deliverable
