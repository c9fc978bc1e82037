// Package domain holds the core types of the connector binding: the error
// taxonomy, the connector log level, the buffer guard around native-allocated
// memory and the response-shape parser for command replies.
package domain
