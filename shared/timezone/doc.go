// Package timezone pins every timestamp the service writes or renders to APP_TIMEZONE
// (an IANA name such as "UTC" or "Africa/Nairobi"). The location is loaded on first use.
package timezone
