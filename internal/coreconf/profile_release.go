//go:build !debug

package coreconf

const templateExternalController = "127.0.0.1:17650"
