// Package txcdll loads the native connector shared module and binds its six
// required entry points behind the driven.Native port. All CGO code of the
// repository lives here; builds without cgo get a stub whose Load always
// fails.
package txcdll
