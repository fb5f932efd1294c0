// Package formats reads Ragnarok Online ground altitude tables and converts
// them into height and surface images a terrain can be built from.
package formats
