//go:build !defaultmeta

package coreconf

const templateMetaDefaults = false
