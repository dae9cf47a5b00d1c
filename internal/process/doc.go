// Package process cleans up the headless browser the PDF exporter starts.
// Closing the DevTools connection does not always stop Chrome's helper
// processes, so the exporter kills the whole group once it is done.
package process
