// Package sysinfo reports the host facts served by /api/system-info: CPU
// count and frequency, memory in GiB, and a platform string.
package sysinfo
