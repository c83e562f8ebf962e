// Package dim holds the shape type shared by every matrix format, array,
// and operator in this module. See dim.go for the type itself.
package dim
