// Package intake turns order files into finished artwork.
//
// Orders are JSON files named <orderID>.json in a drop directory. An order is
// pending while <outputDir>/<orderID>/ does not exist; [Pending] lists them.
// A [Processor] lays out and renders pending orders concurrently, each with
// its own engine, and writes:
//
//	<outputDir>/<orderID>/boardImage.png
//	<outputDir>/<orderID>/poster.png
//	<outputDir>/<orderID>/layout.json
//	<outputDir>/<orderID>/order.json
//
// Outputs are written to a hidden temporary directory and renamed into place,
// so an order directory only ever appears complete. Orders that fail (an
// unreadable file, an invalid word list, an exhausted search) are logged and
// stay pending; the next scan picks them up again.
//
// A [Watcher] runs the processor whenever the drop directory changes and on a
// fixed interval.
package intake
