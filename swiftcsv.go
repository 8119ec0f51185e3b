// # gocsv: a streaming, low-allocation CSV codec
//
// gocsv streams CSV character data into logical rows without
// materializing the whole file, exposes each field as a zero-copy slice
// into a reusable buffer, converts field text into strongly-typed values
// with culture-aware rules, and writes typed records back with correct
// quoting and escaping.
//
// # Features
//
// - Streaming Reader with a three-state parser (delimiter, quote,
// doubled-quote or distinct-escape-character escaping), configurable
// trim and blank-line policy, and strict/lenient bad-data recovery.
// - Struct-tag and fluent-builder column mapping via the csvmap package,
// with a per-type registry cache safe for concurrent readers.
// - Culture-aware value conversion (integers, floats, Decimal, GUID,
// time.Time variants, enums) via the convert package.
// - Buffered Writer with the same quoting rules as the Reader's parser,
// typed WriteHeader/WriteRecord entry points, and a Context-aware
// FlushContext; the Reader's TryReadRowContext checks its Context at
// every input refill.
package gocsv
