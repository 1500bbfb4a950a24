// Package mediasniff classifies an uploaded file's content so the CLI can
// route it to the IMB (still image) or xV4 (animation) path before handing
// it to imagepipeline or frameextractor.
//
// It is an external collaborator to the wire protocol core: spec.md §6
// names it but leaves its implementation to the environment. This wraps
// github.com/gabriel-vasile/mimetype, which sniffs a byte prefix against a
// tree of magic-number matchers rather than trusting a file extension.
package mediasniff
