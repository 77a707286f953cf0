// Package glucose models a single Nightscout sensor reading and the
// display values derived from it: the mmol/L conversion, the local
// timestamp, the trend arrow, and the five-bucket range classification
// that drives the icon color.
package glucose
