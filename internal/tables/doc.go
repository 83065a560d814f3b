// Package tables contains the fixed lookup tables of the Smacker format.
//
// These tables are defined by the format and cannot be derived from the
// bitstream.
package tables
