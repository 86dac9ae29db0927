// Package export serializes entity listings to delimited text or XLSX.
//
// # Direct export
//
// Pipeline.Direct loads every matching record in one sorted query, maps each
// record through an Exporter and returns the encoded file.
//
// # Streaming export
//
// Pipeline.Stream is used for large result sets. It walks the result set in
// BatchSize windows, sending a ProgressEvent after each batch, then runs a
// full Direct pass and sends a CompleteEvent carrying the base64 payload.
// Any failure sends a single ErrorEvent and ends the stream.
//
//	job := export.New(src, export.NewDealExporter(stores, types), sort, export.FormatXLSX)
//	n, err := job.Count(ctx)
//	if n >= export.StreamThreshold {
//	    err = job.Stream(ctx, sink)
//	}
package export
