// Package services implements the binding's core semantics over the driven
// Native port: reference-counted shared ownership of the loaded module, the
// callback bridge with panic containment and safe handler replacement, and
// the Sender for synchronous command submission.
package services
