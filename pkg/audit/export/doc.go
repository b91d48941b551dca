// Package export writes audit records as JSON, CSV or CBOR.
//
// JSON output is a single array. CSV output has one row per record with
// list columns joined by ";". CBOR output is a sequence of deterministic
// encodings, optionally wrapped in a zstd frame; ReadCBOR reads it back.
//
// Every exporter has a streaming variant fed from Storage.QueryStream so
// large exports do not hold every record in memory.
package export
