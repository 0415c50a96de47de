// Package filter downloads the optional remote allow-list of entry names.
//
// LAN-party organizers host a plain text file naming the entries that should
// be offered on a given event; machines without the file configured show the
// full manifest.
package filter
