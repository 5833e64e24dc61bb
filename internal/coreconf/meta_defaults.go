//go:build defaultmeta

package coreconf

// Meta-flavored cores understand unified-delay and tcp-concurrent; builds
// targeting them seed both to true in the template.
const templateMetaDefaults = true
